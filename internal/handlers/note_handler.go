package handlers

import (
	"fmt"
	"net/http"
	"time"

	"parentuni/internal/models"
	"parentuni/internal/service"
)

// NoteHandler exposes the notes feature: CRUD, favorites, filters,
// emotion logs and the plain-text export
type NoteHandler struct {
	notes *service.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List returns the caller's notes, newest first. The filter query
// parameter accepts all, favorite or recent.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	filter := models.NoteFilter(r.URL.Query().Get("filter"))
	switch filter {
	case "", models.NoteFilterAll:
		filter = models.NoteFilterAll
	case models.NoteFilterFavorite, models.NoteFilterRecent:
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown filter", "", nil)
		return
	}

	notes, err := h.notes.List(user.ID, filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	respondWithJSON(w, http.StatusOK, notes)
}

// Create stores a new note
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Create(user.ID, req.Title, req.Content)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, note)
}

// Update rewrites a note's title and content
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Update(user.ID, r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, note)
}

// Delete removes a note
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.notes.Delete(user.ID, r.PathValue("id")); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ToggleFavorite flips the favorite flag on a note
func (h *NoteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	note, err := h.notes.ToggleFavorite(user.ID, r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, note)
}

type emotionLogRequest struct {
	Emotion   string `json:"emotion"`
	Category  string `json:"category"`
	Intensity int    `json:"intensity"`
	Context   string `json:"context"`
}

// CreateEmotionLog records an emotion check-in as an automatic note
func (h *NoteHandler) CreateEmotionLog(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req emotionLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Intensity < 0 || req.Intensity > 10 {
		respondWithError(w, http.StatusBadRequest, "intensity must be between 0 and 10", "", nil)
		return
	}

	note, err := h.notes.CreateEmotionLog(user.ID, req.Emotion, req.Category, req.Intensity, req.Context)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, note)
}

// Export downloads all notes as a plain-text document
func (h *NoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	text, err := h.notes.ExportText(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("anotacoes-%s.txt", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write([]byte(text)); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "notes export write failed", err)
	}
}

// DeleteAll removes every note belonging to the caller
func (h *NoteHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.notes.DeleteAll(user.ID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
