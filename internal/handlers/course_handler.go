package handlers

import (
	"net/http"
	"strconv"

	"parentuni/internal/catalog"
	"parentuni/internal/service"
)

// CourseHandler serves the catalog decorated with the caller's progress
type CourseHandler struct {
	catalog *catalog.Catalog
	states  *service.StateService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(cat *catalog.Catalog, states *service.StateService) *CourseHandler {
	return &CourseHandler{catalog: cat, states: states}
}

// GetCourse returns the full course with unlock and completion flags
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	state, err := h.states.Load(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewCourseView(h.catalog, state))
}

// GetModule returns one module with its lessons
func (h *CourseHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	moduleID, err := strconv.Atoi(r.PathValue("module"))
	if err != nil || h.catalog.Module(moduleID) == nil {
		respondWithError(w, http.StatusNotFound, "Module not found", "", nil)
		return
	}

	state, err := h.states.Load(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewCourseView(h.catalog, state).Modules[moduleID])
}
