package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/progress"
)

const (
	backupAppName = "universidade-de-pais"
	backupVersion = "1.0"
)

var ErrInvalidBackup = errors.New("invalid backup file")

// BackupData is the exported snapshot of one user's course state
type BackupData struct {
	App               string          `json:"app"`
	Version           string          `json:"version"`
	ExportedAt        time.Time       `json:"exportDate"`
	Account           models.Account  `json:"account"`
	Progress          BackupProgress  `json:"progress"`
	CompletedLessons  map[string]bool `json:"completedLessons"`
	BookmarkedLessons []string        `json:"bookmarkedLessons"`
	QuizScores        map[string]int  `json:"quizScores"`
	Stats             models.Stats    `json:"stats"`
	Notes             []models.Note   `json:"notes"`
}

// BackupProgress summarizes course completion at export time
type BackupProgress struct {
	CompletedCount int `json:"completedCount"`
	TotalCount     int `json:"totalCount"`
	Percentage     int `json:"percentage"`
}

// BackupService exports and restores a user's complete course state,
// notes included
type BackupService struct {
	catalog *catalog.Catalog
	states  *StateService
	notes   NoteStore
}

// NewBackupService creates a new backup service
func NewBackupService(cat *catalog.Catalog, states *StateService, notes NoteStore) *BackupService {
	return &BackupService{catalog: cat, states: states, notes: notes}
}

// Export builds a snapshot of the user's state and notes
func (s *BackupService) Export(userID string) (*BackupData, error) {
	state, err := s.states.Load(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export state: %w", err)
	}

	notes, err := s.notes.ListNotes(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export notes: %w", err)
	}

	completed := progress.CompletedCount(s.catalog, state.CompletedLessons)
	total := s.catalog.TotalLessons()

	return &BackupData{
		App:        backupAppName,
		Version:    backupVersion,
		ExportedAt: time.Now(),
		Account:    state.Account,
		Progress: BackupProgress{
			CompletedCount: completed,
			TotalCount:     total,
			Percentage:     progress.OverallPercent(s.catalog, state.CompletedLessons),
		},
		CompletedLessons:  state.CompletedLessons,
		BookmarkedLessons: state.BookmarkedLessons,
		QuizScores:        state.QuizScores,
		Stats:             state.Stats,
		Notes:             notes,
	}, nil
}

// ExportToWriter streams the snapshot as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer, userID string) error {
	backup, err := s.Export(userID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// ExportToFile writes the snapshot to a file on disk
func (s *BackupService) ExportToFile(userID, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file, userID); err != nil {
		return err
	}

	log.Printf("Exported backup for user %s to %s", userID, outputPath)
	return nil
}

// Import replaces the user's state and notes with the snapshot. The
// whole file is validated before anything is written, so a rejected
// import leaves the current state untouched.
func (s *BackupService) Import(userID string, backup *BackupData) error {
	if err := s.validate(backup); err != nil {
		return err
	}

	if backup.CompletedLessons == nil {
		backup.CompletedLessons = map[string]bool{}
	}
	if backup.QuizScores == nil {
		backup.QuizScores = map[string]int{}
	}
	if backup.BookmarkedLessons == nil {
		backup.BookmarkedLessons = []string{}
	}

	if _, err := s.states.Update(userID, models.StatePatch{
		Account:           &backup.Account,
		Stats:             &backup.Stats,
		CompletedLessons:  backup.CompletedLessons,
		BookmarkedLessons: backup.BookmarkedLessons,
		QuizScores:        backup.QuizScores,
	}); err != nil {
		return fmt.Errorf("failed to import state: %w", err)
	}

	if err := s.notes.DeleteAllNotes(userID); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	// restore oldest first so listing order matches the export
	for i := len(backup.Notes) - 1; i >= 0; i-- {
		note := backup.Notes[i]
		if err := s.notes.CreateNote(userID, &note); err != nil {
			return fmt.Errorf("failed to import note %s: %w", note.ID, err)
		}
	}

	log.Printf("Imported backup for user %s: %d completed lessons, %d notes",
		userID, len(backup.CompletedLessons), len(backup.Notes))
	return nil
}

// ImportFromReader decodes and imports a snapshot from a stream
func (s *BackupService) ImportFromReader(r io.Reader, userID string) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return s.Import(userID, &backup)
}

// ImportFromFile imports a snapshot from a file on disk
func (s *BackupService) ImportFromFile(userID, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file, userID)
}

// validate rejects snapshots from other apps and snapshots referencing
// lessons that do not exist in the catalog
func (s *BackupService) validate(backup *BackupData) error {
	if backup.App != backupAppName {
		return fmt.Errorf("%w: unrecognized app %q", ErrInvalidBackup, backup.App)
	}
	if backup.Version == "" {
		return fmt.Errorf("%w: missing version", ErrInvalidBackup)
	}

	for key := range backup.CompletedLessons {
		if err := s.checkLessonKey(key); err != nil {
			return err
		}
	}
	for key := range backup.QuizScores {
		if err := s.checkLessonKey(key); err != nil {
			return err
		}
	}
	for _, key := range backup.BookmarkedLessons {
		if err := s.checkLessonKey(key); err != nil {
			return err
		}
	}

	for _, note := range backup.Notes {
		if note.ID == "" || note.Title == "" {
			return fmt.Errorf("%w: note missing id or title", ErrInvalidBackup)
		}
	}

	return nil
}

func (s *BackupService) checkLessonKey(key string) error {
	moduleID, lessonID, err := models.ParseLessonKey(key)
	if err != nil || s.catalog.Lesson(moduleID, lessonID) == nil {
		return fmt.Errorf("%w: unknown lesson %q", ErrInvalidBackup, key)
	}
	return nil
}
