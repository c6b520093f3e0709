package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"parentuni/internal/service"
	"parentuni/internal/validation"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondWithJSON(w, status, map[string]string{"error": userMsg})
}

// respondWithServiceError maps known service errors to HTTP statuses;
// anything unrecognized is a 500
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
	case errors.Is(err, service.ErrLessonLocked),
		errors.Is(err, service.ErrQuizNotStarted),
		errors.Is(err, service.ErrQuizNotFinished),
		errors.Is(err, service.ErrQuizFinished):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, service.ErrUnknownLesson),
		errors.Is(err, service.ErrNoteNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidScreen),
		errors.Is(err, service.ErrInvalidOption),
		errors.Is(err, service.ErrInvalidBackup):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "request failed", err)
	}
}

// decodeJSON decodes a request body, rejecting unknown payloads early
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return false
	}
	return true
}
