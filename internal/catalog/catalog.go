package catalog

import (
	"fmt"

	"parentuni/internal/models"
)

// Catalog holds the immutable course definition: ordered modules of
// lessons plus the quizzes they reference. It is built once at startup
// and never mutated afterwards.
type Catalog struct {
	Title      string
	Instructor string
	Modules    []models.Module

	quizzes map[int]models.Quiz
}

// New builds a catalog from modules and quizzes, indexing quizzes by id
// so lesson quiz lookup is a map access rather than a scan
func New(title, instructor string, modules []models.Module, quizzes []models.Quiz) (*Catalog, error) {
	c := &Catalog{
		Title:      title,
		Instructor: instructor,
		Modules:    modules,
		quizzes:    make(map[int]models.Quiz, len(quizzes)),
	}

	for _, q := range quizzes {
		if _, ok := c.quizzes[q.ID]; ok {
			return nil, fmt.Errorf("duplicate quiz id %d", q.ID)
		}
		c.quizzes[q.ID] = q
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate checks referential integrity between lessons and quizzes
func (c *Catalog) validate() error {
	if len(c.Modules) == 0 {
		return fmt.Errorf("catalog has no modules")
	}

	for i, mod := range c.Modules {
		if mod.ID != i {
			return fmt.Errorf("module %d has id %d, ids must match position", i, mod.ID)
		}
		if len(mod.Lessons) == 0 {
			return fmt.Errorf("module %d has no lessons", mod.ID)
		}
		for j, lesson := range mod.Lessons {
			if lesson.ModuleID != mod.ID || lesson.LessonID != j {
				return fmt.Errorf("lesson %d of module %d has mismatched ids", j, mod.ID)
			}
			quiz, ok := c.quizzes[lesson.QuizID]
			if !ok {
				return fmt.Errorf("lesson %s references unknown quiz %d", lesson.Key(), lesson.QuizID)
			}
			if len(quiz.Steps) == 0 {
				return fmt.Errorf("quiz %d has no steps", quiz.ID)
			}
		}
	}

	for _, q := range c.quizzes {
		for i, step := range q.Steps {
			if step.CorrectOptionIndex < 0 || step.CorrectOptionIndex >= len(step.Options) {
				return fmt.Errorf("quiz %d step %d has correct index out of range", q.ID, i)
			}
		}
	}

	return nil
}

// Module returns the module with the given id, or nil if out of range
func (c *Catalog) Module(moduleID int) *models.Module {
	if moduleID < 0 || moduleID >= len(c.Modules) {
		return nil
	}
	return &c.Modules[moduleID]
}

// Lesson returns the lesson at (moduleID, lessonID), or nil if out of range
func (c *Catalog) Lesson(moduleID, lessonID int) *models.Lesson {
	mod := c.Module(moduleID)
	if mod == nil || lessonID < 0 || lessonID >= len(mod.Lessons) {
		return nil
	}
	return &mod.Lessons[lessonID]
}

// Quiz returns the quiz with the given id
func (c *Catalog) Quiz(quizID int) (models.Quiz, bool) {
	q, ok := c.quizzes[quizID]
	return q, ok
}

// QuizForLesson returns the quiz referenced by the lesson at (moduleID, lessonID)
func (c *Catalog) QuizForLesson(moduleID, lessonID int) (models.Quiz, bool) {
	lesson := c.Lesson(moduleID, lessonID)
	if lesson == nil {
		return models.Quiz{}, false
	}
	return c.Quiz(lesson.QuizID)
}

// TotalLessons counts lessons across all modules
func (c *Catalog) TotalLessons() int {
	total := 0
	for _, mod := range c.Modules {
		total += len(mod.Lessons)
	}
	return total
}
