// Package progress derives lesson availability and completion figures
// from the completion record. Nothing here is stored: unlock state is
// always recomputed from completed lessons and the catalog, so the two
// can never drift apart.
package progress

import (
	"math"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
)

// IsUnlocked reports whether the lesson at (moduleID, lessonID) may be
// opened. The very first lesson is always available. Within a module a
// lesson unlocks when its predecessor is complete, and a module's first
// lesson unlocks when the previous module is fully complete.
func IsUnlocked(cat *catalog.Catalog, completed map[string]bool, moduleID, lessonID int) bool {
	if cat.Lesson(moduleID, lessonID) == nil {
		return false
	}

	if moduleID == 0 && lessonID == 0 {
		return true
	}

	if lessonID > 0 {
		return completed[models.LessonKey(moduleID, lessonID-1)]
	}

	return IsModuleComplete(cat, completed, moduleID-1)
}

// IsModuleComplete reports whether every lesson of the module is complete
func IsModuleComplete(cat *catalog.Catalog, completed map[string]bool, moduleID int) bool {
	mod := cat.Module(moduleID)
	if mod == nil {
		return false
	}
	for _, lesson := range mod.Lessons {
		if !completed[lesson.Key()] {
			return false
		}
	}
	return true
}

// ModuleCompletedCount counts completed lessons within one module
func ModuleCompletedCount(cat *catalog.Catalog, completed map[string]bool, moduleID int) int {
	mod := cat.Module(moduleID)
	if mod == nil {
		return 0
	}
	count := 0
	for _, lesson := range mod.Lessons {
		if completed[lesson.Key()] {
			count++
		}
	}
	return count
}

// CompletedCount counts completed lessons across the whole course.
// Stale keys that no longer resolve to a catalog lesson are ignored.
func CompletedCount(cat *catalog.Catalog, completed map[string]bool) int {
	count := 0
	for key, done := range completed {
		if !done {
			continue
		}
		moduleID, lessonID, err := models.ParseLessonKey(key)
		if err != nil || cat.Lesson(moduleID, lessonID) == nil {
			continue
		}
		count++
	}
	return count
}

// OverallPercent returns course completion rounded to the nearest whole
// percent, and 0 for an empty catalog
func OverallPercent(cat *catalog.Catalog, completed map[string]bool) int {
	total := cat.TotalLessons()
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(CompletedCount(cat, completed)) / float64(total)))
}

// IsCourseComplete reports whether all lessons in the catalog are complete
func IsCourseComplete(cat *catalog.Catalog, completed map[string]bool) bool {
	return CompletedCount(cat, completed) == cat.TotalLessons()
}

// NextPendingLesson returns the first lesson in catalog order that is not
// yet complete. It reports false when the course is finished.
func NextPendingLesson(cat *catalog.Catalog, completed map[string]bool) (models.Lesson, bool) {
	for _, mod := range cat.Modules {
		for _, lesson := range mod.Lessons {
			if !completed[lesson.Key()] {
				return lesson, true
			}
		}
	}
	return models.Lesson{}, false
}
