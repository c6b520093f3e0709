package models

import "time"

// Note is a user-authored annotation. Notes live outside the autosaved
// state blob and have their own CRUD lifecycle.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteFilter selects which notes a listing returns
type NoteFilter string

const (
	NoteFilterAll      NoteFilter = "all"
	NoteFilterFavorite NoteFilter = "favorite"
	NoteFilterRecent   NoteFilter = "recent"
)
