package handlers

import (
	"net/http"
	"strings"

	"parentuni/internal/service"
	"parentuni/internal/validation"
)

// ContactHandler relays contact form messages by email
type ContactHandler struct {
	emailService *service.EmailService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(emailService *service.EmailService) *ContactHandler {
	return &ContactHandler{emailService: emailService}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Send validates and relays a contact message
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateName(req.Name); err != nil {
		respondWithServiceError(w, err)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondWithServiceError(w, err)
		return
	}

	message := validation.SanitizeText(req.Message)
	if strings.TrimSpace(message) == "" {
		respondWithError(w, http.StatusBadRequest, "message is required", "", nil)
		return
	}

	if err := h.emailService.SendContactEmail(r.Context(), req.Name, req.Email, message); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to send message", "contact relay failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"sent": true})
}
