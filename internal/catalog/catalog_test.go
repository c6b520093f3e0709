package catalog

import (
	"testing"

	"parentuni/internal/models"
)

func TestDefaultCatalogShape(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	if len(c.Modules) != 4 {
		t.Fatalf("expected 4 modules, got %d", len(c.Modules))
	}
	if c.TotalLessons() != 32 {
		t.Errorf("expected 32 lessons, got %d", c.TotalLessons())
	}

	for _, mod := range c.Modules {
		if len(mod.Lessons) != 8 {
			t.Errorf("module %d: expected 8 lessons, got %d", mod.ID, len(mod.Lessons))
		}
	}
}

func TestDefaultCatalogQuizzes(t *testing.T) {
	c := MustDefault()

	// every lesson resolves to a quiz with at least one step
	for _, mod := range c.Modules {
		for _, lesson := range mod.Lessons {
			quiz, ok := c.QuizForLesson(mod.ID, lesson.LessonID)
			if !ok {
				t.Fatalf("lesson %s: no quiz found", lesson.Key())
			}
			if len(quiz.Steps) == 0 {
				t.Errorf("quiz %d: no steps", quiz.ID)
			}
		}
	}

	first, ok := c.Quiz(0)
	if !ok || first.Title != "Questionário Essencial" {
		t.Errorf("quiz 0: expected the essential questionnaire, got %+v", first)
	}

	basic, _ := c.Quiz(8)
	advanced, _ := c.Quiz(9)
	if len(basic.Steps) == 0 || len(advanced.Steps) == 0 {
		t.Fatal("expected both quiz templates to have steps")
	}
	if basic.Steps[0].Question == advanced.Steps[0].Question {
		t.Error("expected quizzes 8 and 9 to use different templates")
	}
}

func TestLookupOutOfRange(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		name     string
		moduleID int
		lessonID int
	}{
		{"negative module", -1, 0},
		{"module past end", 4, 0},
		{"negative lesson", 0, -1},
		{"lesson past end", 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Lesson(tt.moduleID, tt.lessonID); got != nil {
				t.Errorf("Lesson(%d, %d) = %+v, want nil", tt.moduleID, tt.lessonID, got)
			}
		})
	}

	if c.Module(2) == nil {
		t.Error("Module(2) = nil, want module")
	}
}

func TestNewRejectsBrokenCatalogs(t *testing.T) {
	lesson := models.Lesson{ModuleID: 0, LessonID: 0, Title: "Aula 1", QuizID: 0}
	module := models.Module{ID: 0, Title: "Módulo 1", Lessons: []models.Lesson{lesson}}
	quiz := models.Quiz{ID: 0, Title: "Quiz", Steps: []models.QuizStep{
		{Question: "q", Options: []string{"a", "b"}, CorrectOptionIndex: 1},
	}}

	tests := []struct {
		name    string
		modules []models.Module
		quizzes []models.Quiz
	}{
		{"no modules", nil, []models.Quiz{quiz}},
		{"missing quiz", []models.Module{module}, nil},
		{"duplicate quiz id", []models.Module{module}, []models.Quiz{quiz, quiz}},
		{
			"correct index out of range",
			[]models.Module{module},
			[]models.Quiz{{ID: 0, Steps: []models.QuizStep{{Question: "q", Options: []string{"a"}, CorrectOptionIndex: 3}}}},
		},
		{
			"empty quiz",
			[]models.Module{module},
			[]models.Quiz{{ID: 0, Title: "Quiz"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("t", "i", tt.modules, tt.quizzes); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
