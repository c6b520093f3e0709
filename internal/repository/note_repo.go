package repository

import (
	"database/sql"
	"fmt"

	"parentuni/internal/database"
	"parentuni/internal/models"
)

// NoteRepository handles database operations for user notes
type NoteRepository struct {
	db *database.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *database.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = "id, title, content, favorite, created_at, updated_at"

// CreateNote inserts a new note
func (r *NoteRepository) CreateNote(userID string, note *models.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, content, favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, note.ID, userID, note.Title, note.Content, note.Favorite, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// GetNote retrieves a single note owned by the user
func (r *NoteRepository) GetNote(userID, noteID string) (*models.Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE user_id = ? AND id = ?"
	note := &models.Note{}
	err := r.db.QueryRow(query, userID, noteID).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.Favorite,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// ListNotes returns the user's notes, newest first
func (r *NoteRepository) ListNotes(userID string) ([]models.Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE user_id = ? ORDER BY created_at DESC"
	return r.queryNotes(query, userID)
}

// ListFavoriteNotes returns only favorited notes, newest first
func (r *NoteRepository) ListFavoriteNotes(userID string) ([]models.Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE user_id = ? AND favorite = " +
		r.db.Dialect.BoolValue(true) + " ORDER BY created_at DESC"
	return r.queryNotes(query, userID)
}

func (r *NoteRepository) queryNotes(query string, args ...interface{}) ([]models.Note, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Content,
			&note.Favorite,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// UpdateNote rewrites a note's content fields
func (r *NoteRepository) UpdateNote(userID string, note *models.Note) error {
	query := `
		UPDATE notes
		SET title = ?, content = ?, favorite = ?, updated_at = ?
		WHERE user_id = ? AND id = ?
	`
	result, err := r.db.Exec(query, note.Title, note.Content, note.Favorite, note.UpdatedAt, userID, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteNote removes a note owned by the user
func (r *NoteRepository) DeleteNote(userID, noteID string) error {
	query := "DELETE FROM notes WHERE user_id = ? AND id = ?"
	if _, err := r.db.Exec(query, userID, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// DeleteAllNotes removes every note belonging to the user
func (r *NoteRepository) DeleteAllNotes(userID string) error {
	query := "DELETE FROM notes WHERE user_id = ?"
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}
	return nil
}
