package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Lesson represents a single video lesson within a module
type Lesson struct {
	ModuleID      int
	LessonID      int
	Title         string
	Description   string
	VideoRef      string
	DurationLabel string
	QuizID        int
}

// Key returns the composite key identifying this lesson in progress records
func (l Lesson) Key() string {
	return LessonKey(l.ModuleID, l.LessonID)
}

// Module represents an ordered group of lessons
// Module i+1 only unlocks once every lesson of module i is completed
type Module struct {
	ID          int
	Title       string
	Description string
	Duration    string
	Color       string
	Lessons     []Lesson
}

// QuizStep represents a single question within a quiz
type QuizStep struct {
	Question           string
	Options            []string
	CorrectOptionIndex int
	Explanation        string
}

// Quiz represents an ordered sequence of questions attached to a lesson
// Several lessons may share the same quiz template
type Quiz struct {
	ID    int
	Title string
	Steps []QuizStep
}

// LessonKey builds the composite key "M{moduleID}-A{lessonID}" used to
// identify a lesson in completion, bookmark and score records
func LessonKey(moduleID, lessonID int) string {
	return fmt.Sprintf("M%d-A%d", moduleID, lessonID)
}

// ParseLessonKey splits a composite key back into module and lesson ids
func ParseLessonKey(key string) (moduleID, lessonID int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "M") || !strings.HasPrefix(parts[1], "A") {
		return 0, 0, fmt.Errorf("invalid lesson key: %q", key)
	}

	moduleID, err = strconv.Atoi(parts[0][1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lesson key: %q", key)
	}

	lessonID, err = strconv.Atoi(parts[1][1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lesson key: %q", key)
	}

	return moduleID, lessonID, nil
}
