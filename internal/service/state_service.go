package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/progress"
	"parentuni/internal/repository"
)

var (
	ErrInvalidScreen = errors.New("unknown screen")
	ErrLessonLocked  = errors.New("lesson is locked")
	ErrUnknownLesson = errors.New("unknown lesson")
)

// StateStore is the persistence needed by StateService: a per-user
// key-value store of opaque strings. *repository.StateRepository
// implements it.
type StateStore interface {
	Get(userID, key string) (string, bool, error)
	Set(userID, key, value string) error
	Remove(userID, key string) error
}

// StateService owns the persisted application state blob: loading it
// with defaults, applying partial updates, and writing it back. All
// mutations run under a single lock so concurrent autosave and request
// handling cannot interleave a read-modify-write.
type StateService struct {
	catalog *catalog.Catalog
	store   StateStore

	mu     sync.Mutex
	now    func() time.Time
	active map[string]struct{}
}

// NewStateService creates a new state service
func NewStateService(cat *catalog.Catalog, store StateStore) *StateService {
	return &StateService{
		catalog: cat,
		store:   store,
		now:     time.Now,
		active:  make(map[string]struct{}),
	}
}

// Load reads the persisted state, fills any missing fields from
// defaults, and routes a recognized account straight to the home
// screen. A missing or corrupt blob yields pristine defaults rather
// than an error.
func (s *StateService) Load(userID string) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(userID)
}

func (s *StateService) loadLocked(userID string) (models.AppState, error) {
	state := models.DefaultAppState(s.now())

	raw, ok, err := s.store.Get(userID, repository.RecordAppState)
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to load state: %w", err)
	}
	if !ok {
		return state, nil
	}

	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("Corrupt state blob for user %s, starting fresh: %v", userID, err)
		return models.DefaultAppState(s.now()), nil
	}

	if state.QuizScores == nil {
		state.QuizScores = map[string]int{}
	}
	if state.CompletedLessons == nil {
		state.CompletedLessons = map[string]bool{}
	}
	if state.BookmarkedLessons == nil {
		state.BookmarkedLessons = []string{}
	}

	// A returning user with a filled-in account never lands on signup
	if state.Account.Name != "" && state.Account.Email != "" {
		state.CurrentScreen = models.ScreenHome
	}

	return state, nil
}

// Save writes the state blob, stamping last activity first. The
// lastScreen record is written best effort; losing it only costs the
// resume hint, never the state itself.
func (s *StateService) Save(userID string, state models.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(userID, state)
}

func (s *StateService) saveLocked(userID string, state models.AppState) error {
	state.LastActivity = s.now()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := s.store.Set(userID, repository.RecordAppState, string(raw)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	if err := s.store.Set(userID, repository.RecordLastScreen, string(state.CurrentScreen)); err != nil {
		log.Printf("Failed to save last screen for user %s: %v", userID, err)
	}

	s.active[userID] = struct{}{}

	return nil
}

// AutosaveActive re-persists the state of every user touched since the
// previous sweep, stamping fresh activity. The scheduler runs it on a
// short interval and main runs it once more during shutdown. Failures
// are logged; a missed save costs nothing because every mutation
// already persisted synchronously.
func (s *StateService) AutosaveActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]string, 0, len(s.active))
	for userID := range s.active {
		users = append(users, userID)
	}
	s.active = make(map[string]struct{})

	for _, userID := range users {
		state, err := s.loadLocked(userID)
		if err != nil {
			log.Printf("Autosave: failed to load state for user %s: %v", userID, err)
			continue
		}
		if err := s.saveLocked(userID, state); err != nil {
			log.Printf("Autosave: failed to save state for user %s: %v", userID, err)
		}
	}
	// saves above re-marked these users; the sweep is done with them
	s.active = make(map[string]struct{})
}

// Mutate runs a read-modify-write as one atomic step: the state is
// loaded, fn mutates it in place, and the result is saved, all under
// the lock. When fn returns an error nothing is written.
func (s *StateService) Mutate(userID string, fn func(*models.AppState) error) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(userID)
	if err != nil {
		return models.AppState{}, err
	}
	if err := fn(&state); err != nil {
		return models.AppState{}, err
	}
	if err := s.saveLocked(userID, state); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}

// Update loads the state, applies the non-nil fields of the patch as a
// shallow merge, and saves the result. Nested Account and Stats values
// replace the whole object; callers wanting to change one field must
// send the complete struct.
func (s *StateService) Update(userID string, patch models.StatePatch) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(userID)
	if err != nil {
		return models.AppState{}, err
	}

	if patch.CurrentScreen != nil {
		if !models.ValidScreen(*patch.CurrentScreen) {
			return models.AppState{}, fmt.Errorf("%w: %q", ErrInvalidScreen, *patch.CurrentScreen)
		}
		state.CurrentScreen = *patch.CurrentScreen
	}
	if patch.ModuleIndex != nil {
		state.ModuleIndex = *patch.ModuleIndex
	}
	if patch.LessonIndex != nil {
		state.LessonIndex = *patch.LessonIndex
	}
	if patch.QuizStep != nil {
		state.QuizStep = *patch.QuizStep
	}
	if patch.QuizScores != nil {
		state.QuizScores = patch.QuizScores
	}
	if patch.CompletedLessons != nil {
		state.CompletedLessons = patch.CompletedLessons
	}
	if patch.BookmarkedLessons != nil {
		state.BookmarkedLessons = patch.BookmarkedLessons
	}
	if patch.Account != nil {
		state.Account = *patch.Account
	}
	if patch.Stats != nil {
		state.Stats = *patch.Stats
	}

	if err := s.saveLocked(userID, state); err != nil {
		return models.AppState{}, err
	}

	return state, nil
}

// Navigate moves the UI cursor to a screen, optionally positioning it
// on a lesson. Opening a locked lesson is refused.
func (s *StateService) Navigate(userID string, screen models.Screen, moduleIndex, lessonIndex int) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.ValidScreen(screen) {
		return models.AppState{}, fmt.Errorf("%w: %q", ErrInvalidScreen, screen)
	}

	state, err := s.loadLocked(userID)
	if err != nil {
		return models.AppState{}, err
	}

	if screen == models.ScreenLesson {
		if s.catalog.Lesson(moduleIndex, lessonIndex) == nil {
			return models.AppState{}, ErrUnknownLesson
		}
		if !progress.IsUnlocked(s.catalog, state.CompletedLessons, moduleIndex, lessonIndex) {
			return models.AppState{}, ErrLessonLocked
		}
		state.ModuleIndex = moduleIndex
		state.LessonIndex = lessonIndex
	}
	state.CurrentScreen = screen

	if err := s.saveLocked(userID, state); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}

// ToggleBookmark flips the bookmark for a lesson key and saves
func (s *StateService) ToggleBookmark(userID, lessonKey string) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moduleID, lessonID, err := models.ParseLessonKey(lessonKey)
	if err != nil || s.catalog.Lesson(moduleID, lessonID) == nil {
		return models.AppState{}, ErrUnknownLesson
	}

	state, err := s.loadLocked(userID)
	if err != nil {
		return models.AppState{}, err
	}

	if state.IsBookmarked(lessonKey) {
		kept := state.BookmarkedLessons[:0]
		for _, k := range state.BookmarkedLessons {
			if k != lessonKey {
				kept = append(kept, k)
			}
		}
		state.BookmarkedLessons = kept
	} else {
		state.BookmarkedLessons = append(state.BookmarkedLessons, lessonKey)
	}

	if err := s.saveLocked(userID, state); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}

// RecordLogin updates the consecutive-day streak: a login the day after
// the last one extends it, a longer gap resets it to one, and repeat
// logins on the same day leave it untouched.
func (s *StateService) RecordLogin(userID string) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(userID)
	if err != nil {
		return models.AppState{}, err
	}

	now := s.now()
	days := daysBetween(state.Stats.LastLogin, now)
	switch {
	case days == 1:
		state.Stats.Streak++
	case days > 1:
		state.Stats.Streak = 1
	}
	if state.Stats.Streak == 0 {
		state.Stats.Streak = 1
	}
	state.Stats.LastLogin = now

	if err := s.saveLocked(userID, state); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}

// AddTimeSpent accumulates study time in minutes
func (s *StateService) AddTimeSpent(userID string, minutes int) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(userID)
	if err != nil {
		return models.AppState{}, err
	}

	state.Stats.TotalTimeSpent += minutes

	if err := s.saveLocked(userID, state); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}

// ResetProgress clears completion, scores, bookmarks and the quiz
// cursor while keeping the account and usage statistics
func (s *StateService) ResetProgress(userID string) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(userID)
	if err != nil {
		return models.AppState{}, err
	}

	state.CompletedLessons = map[string]bool{}
	state.QuizScores = map[string]int{}
	state.BookmarkedLessons = []string{}
	state.QuizStep = 0

	if err := s.saveLocked(userID, state); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}

// ClearAll removes every persisted record for the user; the next Load
// starts from pristine defaults
func (s *StateService) ClearAll(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(userID, repository.RecordAppState); err != nil {
		return err
	}
	return s.store.Remove(userID, repository.RecordLastScreen)
}

// LastScreen returns the resume hint written alongside each save
func (s *StateService) LastScreen(userID string) (models.Screen, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.store.Get(userID, repository.RecordLastScreen)
	if err != nil || !ok {
		return "", false, err
	}
	return models.Screen(raw), true, nil
}

// Catalog exposes the course definition the service validates against
func (s *StateService) Catalog() *catalog.Catalog {
	return s.catalog
}

// daysBetween counts whole calendar days from a to b in local time
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.Local)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.Local)
	return int(end.Sub(start) / (24 * time.Hour))
}
