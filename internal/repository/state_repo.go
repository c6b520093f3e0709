package repository

import (
	"database/sql"
	"fmt"

	"parentuni/internal/database"
)

// Record keys for the persisted application state.
const (
	RecordAppState   = "appState"
	RecordLastScreen = "lastScreen"
)

// StateRepository stores opaque per-user values in the records key-value
// table. Values are JSON blobs; callers own the encoding.
type StateRepository struct {
	db *database.DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *database.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get retrieves a record value. Missing keys return ok=false, not an error.
func (r *StateRepository) Get(userID, key string) (string, bool, error) {
	var value string
	query := "SELECT value FROM records WHERE user_id = ? AND key = ?"
	err := r.db.QueryRow(query, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes a record value, inserting or overwriting as needed
func (r *StateRepository) Set(userID, key, value string) error {
	query := r.db.Dialect.UpsertRecordQuery()
	if _, err := r.db.Exec(query, userID, key, value); err != nil {
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}
	return nil
}

// Remove deletes a record. Removing a missing key is not an error.
func (r *StateRepository) Remove(userID, key string) error {
	query := "DELETE FROM records WHERE user_id = ? AND key = ?"
	if _, err := r.db.Exec(query, userID, key); err != nil {
		return fmt.Errorf("failed to remove record %s: %w", key, err)
	}
	return nil
}

// RemoveAll deletes every record belonging to the user
func (r *StateRepository) RemoveAll(userID string) error {
	query := "DELETE FROM records WHERE user_id = ?"
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to remove records: %w", err)
	}
	return nil
}
