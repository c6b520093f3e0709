package service

import (
	"errors"
	"fmt"
	"math"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/progress"
)

var (
	ErrQuizNotStarted  = errors.New("quiz not started")
	ErrQuizNotFinished = errors.New("quiz not finished")
	ErrQuizFinished    = errors.New("quiz already finished")
	ErrInvalidOption   = errors.New("invalid answer option")
)

// AnswerResult is the outcome of answering a single quiz question
type AnswerResult struct {
	Correct            bool   `json:"correct"`
	CorrectOptionIndex int    `json:"correctOptionIndex"`
	Explanation        string `json:"explanation"`
	Score              int    `json:"score"`
}

// QuizResults summarizes a finished quiz run
type QuizResults struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// QuizService drives the per-lesson quiz stepper. Step 0 is the lesson
// intro, steps 1..N are questions, and step N+1 shows results. The
// cursor and running score live in the shared state blob, so an
// interrupted quiz resumes exactly where it stopped. Only the lesson
// under the state cursor may be answered, advanced or completed; there
// is a single attempt in flight at any time.
type QuizService struct {
	catalog *catalog.Catalog
	states  *StateService
}

// NewQuizService creates a new quiz service
func NewQuizService(cat *catalog.Catalog, states *StateService) *QuizService {
	return &QuizService{catalog: cat, states: states}
}

// State exposes the current app state for quiz position rendering
func (s *QuizService) State(userID string) (models.AppState, error) {
	return s.states.Load(userID)
}

// quizFor resolves the lesson's quiz or fails with ErrUnknownLesson
func (s *QuizService) quizFor(moduleID, lessonID int) (models.Quiz, error) {
	quiz, ok := s.catalog.QuizForLesson(moduleID, lessonID)
	if !ok {
		return models.Quiz{}, ErrUnknownLesson
	}
	return quiz, nil
}

// requireActive rejects operations naming a lesson other than the one
// the state cursor sits on
func requireActive(state *models.AppState, moduleID, lessonID int) error {
	if state.ModuleIndex != moduleID || state.LessonIndex != lessonID {
		return ErrQuizNotStarted
	}
	return nil
}

// Start begins the quiz for a lesson: the cursor moves to the first
// question and the lesson's running score resets to zero. The lesson
// must be unlocked.
func (s *QuizService) Start(userID string, moduleID, lessonID int) (models.AppState, error) {
	if _, err := s.quizFor(moduleID, lessonID); err != nil {
		return models.AppState{}, err
	}

	return s.states.Mutate(userID, func(state *models.AppState) error {
		if !progress.IsUnlocked(s.catalog, state.CompletedLessons, moduleID, lessonID) {
			return ErrLessonLocked
		}
		state.ModuleIndex = moduleID
		state.LessonIndex = lessonID
		state.QuizStep = 1
		state.QuizScores[models.LessonKey(moduleID, lessonID)] = 0
		return nil
	})
}

// SubmitAnswer grades the answer for the question under the cursor and
// accumulates the score. The cursor does not advance; the caller shows
// the explanation first and then calls NextStep.
func (s *QuizService) SubmitAnswer(userID string, moduleID, lessonID, selectedIndex int) (AnswerResult, error) {
	quiz, err := s.quizFor(moduleID, lessonID)
	if err != nil {
		return AnswerResult{}, err
	}

	var result AnswerResult
	_, err = s.states.Mutate(userID, func(state *models.AppState) error {
		if err := requireActive(state, moduleID, lessonID); err != nil {
			return err
		}
		if state.QuizStep < 1 {
			return ErrQuizNotStarted
		}
		if state.QuizStep > len(quiz.Steps) {
			return ErrQuizFinished
		}

		step := quiz.Steps[state.QuizStep-1]
		if selectedIndex < 0 || selectedIndex >= len(step.Options) {
			return fmt.Errorf("%w: %d", ErrInvalidOption, selectedIndex)
		}

		key := models.LessonKey(moduleID, lessonID)
		correct := selectedIndex == step.CorrectOptionIndex
		if correct {
			state.QuizScores[key]++
		}

		result = AnswerResult{
			Correct:            correct,
			CorrectOptionIndex: step.CorrectOptionIndex,
			Explanation:        step.Explanation,
			Score:              state.QuizScores[key],
		}
		return nil
	})
	if err != nil {
		return AnswerResult{}, err
	}
	return result, nil
}

// NextStep advances the cursor, landing on the results view after the
// last question
func (s *QuizService) NextStep(userID string, moduleID, lessonID int) (models.AppState, error) {
	quiz, err := s.quizFor(moduleID, lessonID)
	if err != nil {
		return models.AppState{}, err
	}

	return s.states.Mutate(userID, func(state *models.AppState) error {
		if err := requireActive(state, moduleID, lessonID); err != nil {
			return err
		}
		if state.QuizStep < 1 {
			return ErrQuizNotStarted
		}
		if state.QuizStep > len(quiz.Steps) {
			return ErrQuizFinished
		}
		state.QuizStep++
		return nil
	})
}

// Retake moves the cursor from the results view back to the lesson
// intro. The previous score survives until Start resets it.
func (s *QuizService) Retake(userID string, moduleID, lessonID int) (models.AppState, error) {
	quiz, err := s.quizFor(moduleID, lessonID)
	if err != nil {
		return models.AppState{}, err
	}

	return s.states.Mutate(userID, func(state *models.AppState) error {
		if err := requireActive(state, moduleID, lessonID); err != nil {
			return err
		}
		if state.QuizStep <= len(quiz.Steps) {
			return ErrQuizNotFinished
		}
		state.QuizStep = 0
		return nil
	})
}

// MarkComplete records the lesson as done and rewinds the quiz cursor.
// Valid only from the results view; completion does not depend on the
// score, finishing the quiz is enough. Completing an already completed
// lesson is a no-op.
func (s *QuizService) MarkComplete(userID string, moduleID, lessonID int) (models.AppState, error) {
	quiz, err := s.quizFor(moduleID, lessonID)
	if err != nil {
		return models.AppState{}, err
	}

	return s.states.Mutate(userID, func(state *models.AppState) error {
		key := models.LessonKey(moduleID, lessonID)
		if state.CompletedLessons[key] {
			return nil
		}
		if !progress.IsUnlocked(s.catalog, state.CompletedLessons, moduleID, lessonID) {
			return ErrLessonLocked
		}
		if err := requireActive(state, moduleID, lessonID); err != nil {
			return err
		}
		if state.QuizStep <= len(quiz.Steps) {
			return ErrQuizNotFinished
		}

		state.CompletedLessons[key] = true
		state.QuizStep = 0
		return nil
	})
}

// Results reports the score for a lesson's quiz run
func (s *QuizService) Results(userID string, moduleID, lessonID int) (QuizResults, error) {
	quiz, err := s.quizFor(moduleID, lessonID)
	if err != nil {
		return QuizResults{}, err
	}

	state, err := s.states.Load(userID)
	if err != nil {
		return QuizResults{}, err
	}

	score := state.QuizScores[models.LessonKey(moduleID, lessonID)]
	total := len(quiz.Steps)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(score) / float64(total)))
	}

	return QuizResults{Score: score, Total: total, Percentage: percentage}, nil
}
