package models

import "time"

// Screen names the view the UI should show; the rendering layer resolves
// these to actual screens, the core only tracks and persists the cursor
type Screen string

const (
	ScreenSignup     Screen = "signup"
	ScreenHome       Screen = "home"
	ScreenLessons    Screen = "lessons"
	ScreenLesson     Screen = "lesson"
	ScreenComplete   Screen = "complete"
	ScreenProfile    Screen = "profile"
	ScreenNotes      Screen = "notes"
	ScreenFavorites  Screen = "favorites"
	ScreenFAQ        Screen = "faq"
	ScreenBenefits   Screen = "benefits"
	ScreenSentiments Screen = "sentiments"
	ScreenShare      Screen = "share"
)

// ValidScreen reports whether s is a known screen name
func ValidScreen(s Screen) bool {
	switch s {
	case ScreenSignup, ScreenHome, ScreenLessons, ScreenLesson, ScreenComplete,
		ScreenProfile, ScreenNotes, ScreenFavorites, ScreenFAQ, ScreenBenefits,
		ScreenSentiments, ScreenShare:
		return true
	}
	return false
}

// Account holds profile data and preferences for the course user.
// It drives theming and notification opt-in, not access control.
type Account struct {
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Notifications bool      `json:"notifications"`
	Reminders     bool      `json:"reminders"`
	DarkMode      bool      `json:"darkMode"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Stats tracks usage statistics shown on the profile screen
type Stats struct {
	TotalTimeSpent int       `json:"totalTimeSpent"` // minutes
	Streak         int       `json:"streak"`         // consecutive login days
	LastLogin      time.Time `json:"lastLogin"`
}

// AppState is the full persisted application state blob. Completion,
// bookmarks and scores are keyed by the lesson composite key ("M0-A0").
//
// Lesson unlock state is never stored here; it is always derived from
// CompletedLessons and the catalog.
type AppState struct {
	CurrentScreen     Screen          `json:"currentScreen"`
	ModuleIndex       int             `json:"moduleIndex"`
	LessonIndex       int             `json:"lessonIndex"`
	QuizStep          int             `json:"quizStep"`
	QuizScores        map[string]int  `json:"quizScores"`
	CompletedLessons  map[string]bool `json:"completedLessons"`
	BookmarkedLessons []string        `json:"bookmarkedLessons"`
	Account           Account         `json:"account"`
	Stats             Stats           `json:"stats"`
	LastActivity      time.Time       `json:"lastActivity"`
}

// DefaultAppState returns the state a first-run user starts with
func DefaultAppState(now time.Time) AppState {
	return AppState{
		CurrentScreen:     ScreenSignup,
		ModuleIndex:       0,
		LessonIndex:       0,
		QuizStep:          0,
		QuizScores:        map[string]int{},
		CompletedLessons:  map[string]bool{},
		BookmarkedLessons: []string{},
		Account: Account{
			Notifications: true,
			Reminders:     false,
			DarkMode:      false,
			CreatedAt:     now,
		},
		Stats: Stats{
			LastLogin: now,
		},
		LastActivity: now,
	}
}

// IsBookmarked reports whether the lesson key is in the bookmark list
func (s *AppState) IsBookmarked(key string) bool {
	for _, k := range s.BookmarkedLessons {
		if k == key {
			return true
		}
	}
	return false
}

// StatePatch is a partial update applied to AppState. Nil fields are left
// untouched; non-nil fields replace the corresponding top-level value
// wholesale. This is a shallow merge: to change a single Account or Stats
// field the caller must supply the complete nested object, typically by
// copying the current value and overriding the field.
type StatePatch struct {
	CurrentScreen     *Screen         `json:"currentScreen,omitempty"`
	ModuleIndex       *int            `json:"moduleIndex,omitempty"`
	LessonIndex       *int            `json:"lessonIndex,omitempty"`
	QuizStep          *int            `json:"quizStep,omitempty"`
	QuizScores        map[string]int  `json:"quizScores,omitempty"`
	CompletedLessons  map[string]bool `json:"completedLessons,omitempty"`
	BookmarkedLessons []string        `json:"bookmarkedLessons,omitempty"`
	Account           *Account        `json:"account,omitempty"`
	Stats             *Stats          `json:"stats,omitempty"`
}
