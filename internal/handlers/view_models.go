package handlers

import (
	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/progress"
)

// ProgressView summarizes completion for the whole course
type ProgressView struct {
	CompletedCount int  `json:"completedCount"`
	TotalCount     int  `json:"totalCount"`
	Percentage     int  `json:"percentage"`
	CourseComplete bool `json:"courseComplete"`
}

// LessonView is one lesson decorated with the caller's progress
type LessonView struct {
	ModuleID      int    `json:"moduleId"`
	LessonID      int    `json:"lessonId"`
	Key           string `json:"key"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	VideoRef      string `json:"videoRef"`
	DurationLabel string `json:"durationLabel"`
	QuizID        int    `json:"quizId"`
	Unlocked      bool   `json:"unlocked"`
	Completed     bool   `json:"completed"`
	Bookmarked    bool   `json:"bookmarked"`
}

// ModuleView is one module with per-module completion figures
type ModuleView struct {
	ID             int          `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Duration       string       `json:"duration"`
	Color          string       `json:"color"`
	CompletedCount int          `json:"completedCount"`
	TotalCount     int          `json:"totalCount"`
	Lessons        []LessonView `json:"lessons"`
}

// CourseView is the full catalog decorated with the caller's progress
type CourseView struct {
	Title      string       `json:"title"`
	Instructor string       `json:"instructor"`
	Modules    []ModuleView `json:"modules"`
	Progress   ProgressView `json:"progress"`
}

// StateView pairs the raw state blob with derived progress so the
// client never computes unlock state itself
type StateView struct {
	State    models.AppState `json:"state"`
	Progress ProgressView    `json:"progress"`
}

// QuizStepView is one question without its answer key
type QuizStepView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizView describes where the quiz cursor sits. Phase is one of
// "intro", "question" or "results"; Question is set only during the
// question phase.
type QuizView struct {
	QuizID     int           `json:"quizId"`
	Title      string        `json:"title"`
	Step       int           `json:"step"`
	TotalSteps int           `json:"totalSteps"`
	Phase      string        `json:"phase"`
	Question   *QuizStepView `json:"question,omitempty"`
	Score      int           `json:"score"`
}

// NewProgressView computes course-wide completion figures
func NewProgressView(cat *catalog.Catalog, completed map[string]bool) ProgressView {
	count := progress.CompletedCount(cat, completed)
	return ProgressView{
		CompletedCount: count,
		TotalCount:     cat.TotalLessons(),
		Percentage:     progress.OverallPercent(cat, completed),
		CourseComplete: progress.IsCourseComplete(cat, completed),
	}
}

// NewStateView builds the combined state snapshot
func NewStateView(cat *catalog.Catalog, state models.AppState) StateView {
	return StateView{
		State:    state,
		Progress: NewProgressView(cat, state.CompletedLessons),
	}
}

// NewCourseView decorates the catalog with unlock, completion and
// bookmark flags for one user
func NewCourseView(cat *catalog.Catalog, state models.AppState) CourseView {
	view := CourseView{
		Title:      cat.Title,
		Instructor: cat.Instructor,
		Modules:    make([]ModuleView, 0, len(cat.Modules)),
		Progress:   NewProgressView(cat, state.CompletedLessons),
	}

	for _, mod := range cat.Modules {
		moduleView := ModuleView{
			ID:             mod.ID,
			Title:          mod.Title,
			Description:    mod.Description,
			Duration:       mod.Duration,
			Color:          mod.Color,
			CompletedCount: progress.ModuleCompletedCount(cat, state.CompletedLessons, mod.ID),
			TotalCount:     len(mod.Lessons),
			Lessons:        make([]LessonView, 0, len(mod.Lessons)),
		}
		for _, lesson := range mod.Lessons {
			key := lesson.Key()
			moduleView.Lessons = append(moduleView.Lessons, LessonView{
				ModuleID:      lesson.ModuleID,
				LessonID:      lesson.LessonID,
				Key:           key,
				Title:         lesson.Title,
				Description:   lesson.Description,
				VideoRef:      lesson.VideoRef,
				DurationLabel: lesson.DurationLabel,
				QuizID:        lesson.QuizID,
				Unlocked:      progress.IsUnlocked(cat, state.CompletedLessons, lesson.ModuleID, lesson.LessonID),
				Completed:     state.CompletedLessons[key],
				Bookmarked:    state.IsBookmarked(key),
			})
		}
		view.Modules = append(view.Modules, moduleView)
	}

	return view
}

// NewQuizView reports the quiz position for the lesson the state cursor
// points at. The answer key never leaves the server; correctness comes
// back through the answer endpoint.
func NewQuizView(quiz models.Quiz, state models.AppState, lessonKey string) QuizView {
	view := QuizView{
		QuizID:     quiz.ID,
		Title:      quiz.Title,
		Step:       state.QuizStep,
		TotalSteps: len(quiz.Steps),
		Score:      state.QuizScores[lessonKey],
	}

	switch {
	case state.QuizStep <= 0:
		view.Phase = "intro"
	case state.QuizStep <= len(quiz.Steps):
		view.Phase = "question"
		step := quiz.Steps[state.QuizStep-1]
		view.Question = &QuizStepView{
			Question: step.Question,
			Options:  step.Options,
		}
	default:
		view.Phase = "results"
	}

	return view
}
