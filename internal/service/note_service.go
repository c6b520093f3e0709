package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parentuni/internal/models"
	"parentuni/internal/validation"

	"github.com/google/uuid"
)

var ErrNoteNotFound = errors.New("note not found")

// recentNotesWindow bounds the "recent" note filter.
const recentNotesWindow = 7 * 24 * time.Hour

// NoteStore is the persistence needed by NoteService.
// *repository.NoteRepository implements it.
type NoteStore interface {
	CreateNote(userID string, note *models.Note) error
	GetNote(userID, noteID string) (*models.Note, error)
	ListNotes(userID string) ([]models.Note, error)
	ListFavoriteNotes(userID string) ([]models.Note, error)
	UpdateNote(userID string, note *models.Note) error
	DeleteNote(userID, noteID string) error
	DeleteAllNotes(userID string) error
}

// NoteService handles the notes feature: creation, listing with
// filters, favorites, the automatic emotion-log entries and plain-text
// export
type NoteService struct {
	notes NoteStore
	now   func() time.Time
}

// NewNoteService creates a new note service
func NewNoteService(notes NoteStore) *NoteService {
	return &NoteService{notes: notes, now: time.Now}
}

// Create validates, sanitizes and stores a new note
func (s *NoteService) Create(userID, title, content string) (*models.Note, error) {
	title = validation.SanitizeText(title)
	content = validation.SanitizeText(content)

	if err := validation.ValidateNoteTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidateNoteContent(content); err != nil {
		return nil, err
	}

	now := s.now()
	note := &models.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.CreateNote(userID, note); err != nil {
		return nil, err
	}
	return note, nil
}

// CreateEmotionLog records an emotion check-in as a regular note so it
// shows up in the notes list alongside manual entries
func (s *NoteService) CreateEmotionLog(userID, emotion, category string, intensity int, context string) (*models.Note, error) {
	if emotion == "" {
		return nil, validation.ValidationError{Field: "emotion", Message: "emotion is required"}
	}
	if category == "" {
		category = "Sem Categoria"
	}
	if context == "" {
		context = "Sem descrição/contexto."
	}

	title := fmt.Sprintf("[LOG EMOÇÃO] %s (%s)", emotion, strings.ToUpper(category))
	content := fmt.Sprintf("Intensidade: %d/10\nContexto:\n%s", intensity, context)

	return s.Create(userID, title, content)
}

// Get returns a single note or ErrNoteNotFound
func (s *NoteService) Get(userID, noteID string) (*models.Note, error) {
	note, err := s.notes.GetNote(userID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// List returns notes newest first, optionally filtered to favorites or
// to the recent window
func (s *NoteService) List(userID string, filter models.NoteFilter) ([]models.Note, error) {
	if filter == models.NoteFilterFavorite {
		return s.notes.ListFavoriteNotes(userID)
	}

	notes, err := s.notes.ListNotes(userID)
	if err != nil {
		return nil, err
	}

	if filter == models.NoteFilterRecent {
		cutoff := s.now().Add(-recentNotesWindow)
		recent := notes[:0]
		for _, n := range notes {
			if n.CreatedAt.After(cutoff) {
				recent = append(recent, n)
			}
		}
		return recent, nil
	}

	return notes, nil
}

// Update rewrites a note's title and content
func (s *NoteService) Update(userID, noteID, title, content string) (*models.Note, error) {
	note, err := s.Get(userID, noteID)
	if err != nil {
		return nil, err
	}

	title = validation.SanitizeText(title)
	content = validation.SanitizeText(content)
	if err := validation.ValidateNoteTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidateNoteContent(content); err != nil {
		return nil, err
	}

	note.Title = title
	note.Content = content
	note.UpdatedAt = s.now()

	if err := s.notes.UpdateNote(userID, note); err != nil {
		return nil, err
	}
	return note, nil
}

// ToggleFavorite flips the favorite flag
func (s *NoteService) ToggleFavorite(userID, noteID string) (*models.Note, error) {
	note, err := s.Get(userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Favorite = !note.Favorite
	note.UpdatedAt = s.now()

	if err := s.notes.UpdateNote(userID, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note
func (s *NoteService) Delete(userID, noteID string) error {
	if _, err := s.Get(userID, noteID); err != nil {
		return err
	}
	return s.notes.DeleteNote(userID, noteID)
}

// DeleteAll removes every note belonging to the user
func (s *NoteService) DeleteAll(userID string) error {
	return s.notes.DeleteAllNotes(userID)
}

// ExportText renders all notes as a plain-text document for download
func (s *NoteService) ExportText(userID string) (string, error) {
	notes, err := s.notes.ListNotes(userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Minhas Anotações - Universidade de Pais\n")
	b.WriteString(fmt.Sprintf("Exportado em: %s\n\n", s.now().Format("02/01/2006 15:04")))

	for _, n := range notes {
		b.WriteString(strings.Repeat("=", 40) + "\n")
		b.WriteString(n.Title + "\n")
		b.WriteString(n.CreatedAt.Format("02/01/2006 15:04") + "\n\n")
		b.WriteString(n.Content + "\n\n")
	}

	return b.String(), nil
}
