package service

import (
	"errors"
	"testing"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
)

func newTestQuizService(t *testing.T) (*QuizService, *StateService) {
	t.Helper()
	states := newTestStateService(newMemStore())
	return NewQuizService(catalog.MustDefault(), states), states
}

// walkToResults starts the quiz and advances the cursor past the last
// question so it sits on the results view
func walkToResults(t *testing.T, quizzes *QuizService, userID string, moduleID, lessonID int) {
	t.Helper()
	quiz, _ := quizzes.catalog.QuizForLesson(moduleID, lessonID)

	if _, err := quizzes.Start(userID, moduleID, lessonID); err != nil {
		t.Fatalf("Start(%d,%d) error: %v", moduleID, lessonID, err)
	}
	for range quiz.Steps {
		if _, err := quizzes.NextStep(userID, moduleID, lessonID); err != nil {
			t.Fatalf("NextStep(%d,%d) error: %v", moduleID, lessonID, err)
		}
	}
}

func TestQuizFullRun(t *testing.T) {
	quizzes, states := newTestQuizService(t)
	cat := states.Catalog()
	quiz, _ := cat.QuizForLesson(0, 0)
	key := models.LessonKey(0, 0)

	state, err := quizzes.Start("u1", 0, 0)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if state.QuizStep != 1 {
		t.Errorf("QuizStep after Start = %d, want 1", state.QuizStep)
	}
	if state.QuizScores[key] != 0 {
		t.Errorf("score after Start = %d, want 0", state.QuizScores[key])
	}

	// answer every question correctly, advancing between questions
	for i, step := range quiz.Steps {
		result, err := quizzes.SubmitAnswer("u1", 0, 0, step.CorrectOptionIndex)
		if err != nil {
			t.Fatalf("SubmitAnswer(step %d) error: %v", i+1, err)
		}
		if !result.Correct {
			t.Errorf("step %d: expected correct", i+1)
		}
		if result.Score != i+1 {
			t.Errorf("step %d: score = %d, want %d", i+1, result.Score, i+1)
		}

		if state, err = quizzes.NextStep("u1", 0, 0); err != nil {
			t.Fatalf("NextStep(step %d) error: %v", i+1, err)
		}
	}

	// cursor should now sit on the results view
	if state.QuizStep != len(quiz.Steps)+1 {
		t.Errorf("QuizStep = %d, want %d (results)", state.QuizStep, len(quiz.Steps)+1)
	}

	results, err := quizzes.Results("u1", 0, 0)
	if err != nil {
		t.Fatalf("Results() error: %v", err)
	}
	if results.Score != len(quiz.Steps) || results.Percentage != 100 {
		t.Errorf("Results = %+v, want perfect score", results)
	}

	state, err = quizzes.MarkComplete("u1", 0, 0)
	if err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}
	if !state.CompletedLessons[key] {
		t.Error("lesson not marked complete")
	}
	if state.QuizStep != 0 {
		t.Errorf("QuizStep after complete = %d, want 0", state.QuizStep)
	}
}

func TestQuizWrongAnswerKeepsScore(t *testing.T) {
	quizzes, states := newTestQuizService(t)
	quiz, _ := states.Catalog().QuizForLesson(0, 0)
	step := quiz.Steps[0]

	if _, err := quizzes.Start("u1", 0, 0); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	wrong := (step.CorrectOptionIndex + 1) % len(step.Options)
	result, err := quizzes.SubmitAnswer("u1", 0, 0, wrong)
	if err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	if result.Correct {
		t.Error("wrong answer graded as correct")
	}
	if result.Score != 0 {
		t.Errorf("score = %d, want 0", result.Score)
	}
	if result.CorrectOptionIndex != step.CorrectOptionIndex {
		t.Error("result should reveal the correct option")
	}
	if result.Explanation == "" {
		t.Error("result should carry the explanation")
	}
}

func TestQuizGuards(t *testing.T) {
	quizzes, _ := newTestQuizService(t)

	// answering before Start
	if _, err := quizzes.SubmitAnswer("u1", 0, 0, 0); !errors.Is(err, ErrQuizNotStarted) {
		t.Errorf("SubmitAnswer before Start error = %v, want ErrQuizNotStarted", err)
	}
	if _, err := quizzes.NextStep("u1", 0, 0); !errors.Is(err, ErrQuizNotStarted) {
		t.Errorf("NextStep before Start error = %v, want ErrQuizNotStarted", err)
	}

	// locked lesson cannot start
	if _, err := quizzes.Start("u1", 1, 0); !errors.Is(err, ErrLessonLocked) {
		t.Errorf("Start on locked lesson error = %v, want ErrLessonLocked", err)
	}

	// unknown lesson
	if _, err := quizzes.Start("u1", 9, 9); !errors.Is(err, ErrUnknownLesson) {
		t.Errorf("Start on unknown lesson error = %v, want ErrUnknownLesson", err)
	}

	// out-of-range option
	if _, err := quizzes.Start("u1", 0, 0); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, err := quizzes.SubmitAnswer("u1", 0, 0, 99); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("SubmitAnswer(99) error = %v, want ErrInvalidOption", err)
	}
	if _, err := quizzes.SubmitAnswer("u1", 0, 0, -1); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("SubmitAnswer(-1) error = %v, want ErrInvalidOption", err)
	}
}

func TestQuizNoStepPastResults(t *testing.T) {
	quizzes, _ := newTestQuizService(t)

	walkToResults(t, quizzes, "u1", 0, 0)

	if _, err := quizzes.NextStep("u1", 0, 0); !errors.Is(err, ErrQuizFinished) {
		t.Errorf("NextStep past results error = %v, want ErrQuizFinished", err)
	}
	if _, err := quizzes.SubmitAnswer("u1", 0, 0, 0); !errors.Is(err, ErrQuizFinished) {
		t.Errorf("SubmitAnswer past results error = %v, want ErrQuizFinished", err)
	}
}

func TestQuizRejectsInactiveLesson(t *testing.T) {
	quizzes, states := newTestQuizService(t)
	otherKey := models.LessonKey(1, 3)

	if _, err := quizzes.Start("u1", 0, 0); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// operations naming a lesson other than the active one are refused
	if _, err := quizzes.SubmitAnswer("u1", 1, 3, 0); !errors.Is(err, ErrQuizNotStarted) {
		t.Errorf("SubmitAnswer on inactive lesson error = %v, want ErrQuizNotStarted", err)
	}
	if _, err := quizzes.NextStep("u1", 1, 3); !errors.Is(err, ErrQuizNotStarted) {
		t.Errorf("NextStep on inactive lesson error = %v, want ErrQuizNotStarted", err)
	}
	if _, err := quizzes.Retake("u1", 1, 3); !errors.Is(err, ErrQuizNotStarted) {
		t.Errorf("Retake on inactive lesson error = %v, want ErrQuizNotStarted", err)
	}

	// the rejected calls must not have touched the other lesson's score
	state, err := states.Load("u1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := state.QuizScores[otherKey]; ok {
		t.Errorf("inactive lesson score was written: %v", state.QuizScores)
	}
	if state.QuizStep != 1 {
		t.Errorf("QuizStep = %d, want 1 (untouched)", state.QuizStep)
	}
}

func TestMarkCompleteOnlyFromResults(t *testing.T) {
	quizzes, states := newTestQuizService(t)
	key := models.LessonKey(0, 0)

	// fresh user, cursor at intro: nothing to complete
	if _, err := quizzes.MarkComplete("u1", 0, 0); !errors.Is(err, ErrQuizNotFinished) {
		t.Errorf("MarkComplete from intro error = %v, want ErrQuizNotFinished", err)
	}

	// mid-question is still not results
	if _, err := quizzes.Start("u1", 0, 0); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, err := quizzes.MarkComplete("u1", 0, 0); !errors.Is(err, ErrQuizNotFinished) {
		t.Errorf("MarkComplete mid-question error = %v, want ErrQuizNotFinished", err)
	}

	// a locked lesson cannot be completed at all
	if _, err := quizzes.MarkComplete("u1", 3, 7); !errors.Is(err, ErrLessonLocked) {
		t.Errorf("MarkComplete on locked lesson error = %v, want ErrLessonLocked", err)
	}

	// none of the rejected calls may have recorded a completion
	state, err := states.Load("u1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(state.CompletedLessons) != 0 {
		t.Errorf("rejected completions were recorded: %v", state.CompletedLessons)
	}

	// from the results view it succeeds
	walkToResults(t, quizzes, "u1", 0, 0)
	state, err = quizzes.MarkComplete("u1", 0, 0)
	if err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}
	if !state.CompletedLessons[key] {
		t.Error("lesson not marked complete from results")
	}
}

func TestQuizRetakeAndRestart(t *testing.T) {
	quizzes, states := newTestQuizService(t)
	quiz, _ := states.Catalog().QuizForLesson(0, 0)
	key := models.LessonKey(0, 0)

	// retake before reaching results is refused
	if _, err := quizzes.Start("u1", 0, 0); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, err := quizzes.Retake("u1", 0, 0); !errors.Is(err, ErrQuizNotFinished) {
		t.Errorf("Retake mid-question error = %v, want ErrQuizNotFinished", err)
	}

	// answer the first question, then walk the rest of the way
	if _, err := quizzes.SubmitAnswer("u1", 0, 0, quiz.Steps[0].CorrectOptionIndex); err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	for range quiz.Steps {
		if _, err := quizzes.NextStep("u1", 0, 0); err != nil {
			t.Fatalf("NextStep() error: %v", err)
		}
	}

	// retake from results rewinds the cursor but keeps the score
	state, err := quizzes.Retake("u1", 0, 0)
	if err != nil {
		t.Fatalf("Retake() error: %v", err)
	}
	if state.QuizStep != 0 {
		t.Errorf("QuizStep after Retake = %d, want 0", state.QuizStep)
	}
	if state.QuizScores[key] != 1 {
		t.Errorf("score after Retake = %d, want 1", state.QuizScores[key])
	}

	// a fresh Start resets the score
	state, err = quizzes.Start("u1", 0, 0)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if state.QuizScores[key] != 0 {
		t.Errorf("score after restart = %d, want 0", state.QuizScores[key])
	}
}

func TestQuizCompletionUnlocksNextLesson(t *testing.T) {
	quizzes, _ := newTestQuizService(t)

	walkToResults(t, quizzes, "u1", 0, 0)
	if _, err := quizzes.MarkComplete("u1", 0, 0); err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}

	// the next lesson's quiz can now start
	if _, err := quizzes.Start("u1", 0, 1); err != nil {
		t.Errorf("Start on newly unlocked lesson error: %v", err)
	}

	// completing again is harmless
	state, err := quizzes.MarkComplete("u1", 0, 0)
	if err != nil {
		t.Fatalf("second MarkComplete() error: %v", err)
	}
	if !state.CompletedLessons[models.LessonKey(0, 0)] {
		t.Error("completion flag lost")
	}
}
