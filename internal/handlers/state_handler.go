package handlers

import (
	"net/http"

	"parentuni/internal/catalog"
	"parentuni/internal/models"
	"parentuni/internal/service"
)

// StateHandler exposes the persisted application state: snapshot,
// partial updates, navigation, bookmarks and the destructive resets
type StateHandler struct {
	catalog *catalog.Catalog
	states  *service.StateService
}

// NewStateHandler creates a new state handler
func NewStateHandler(cat *catalog.Catalog, states *service.StateService) *StateHandler {
	return &StateHandler{catalog: cat, states: states}
}

// GetState returns the caller's state plus derived progress
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	state, err := h.states.Load(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewStateView(h.catalog, state))
}

// UpdateState applies a shallow patch to the state blob
func (h *StateHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var patch models.StatePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	state, err := h.states.Update(user.ID, patch)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewStateView(h.catalog, state))
}

type navigateRequest struct {
	Screen      models.Screen `json:"screen"`
	ModuleIndex int           `json:"moduleIndex"`
	LessonIndex int           `json:"lessonIndex"`
}

// Navigate moves the UI cursor; opening a locked lesson is refused
func (h *StateHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req navigateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.states.Navigate(user.ID, req.Screen, req.ModuleIndex, req.LessonIndex)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewStateView(h.catalog, state))
}

type bookmarkRequest struct {
	LessonKey string `json:"lessonKey"`
}

// ToggleBookmark flips a lesson bookmark
func (h *StateHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req bookmarkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.states.ToggleBookmark(user.ID, req.LessonKey)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"bookmarked": state.IsBookmarked(req.LessonKey),
	})
}

type timeSpentRequest struct {
	Minutes int `json:"minutes"`
}

// AddTimeSpent accumulates study minutes in the profile stats
func (h *StateHandler) AddTimeSpent(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req timeSpentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Minutes < 0 {
		respondWithError(w, http.StatusBadRequest, "minutes must not be negative", "", nil)
		return
	}

	state, err := h.states.AddTimeSpent(user.ID, req.Minutes)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, state.Stats)
}

// ResetProgress clears completion, scores and bookmarks but keeps the
// account and stats
func (h *StateHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	state, err := h.states.ResetProgress(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewStateView(h.catalog, state))
}

// ClearAll wipes every persisted record back to first-run defaults
func (h *StateHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.states.ClearAll(user.ID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	state, err := h.states.Load(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewStateView(h.catalog, state))
}
