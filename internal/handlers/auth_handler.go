package handlers

import (
	"context"
	"log"
	"net/http"

	"parentuni/internal/security"
	"parentuni/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		csrf:                 csrf,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrfToken"`
}

// Register creates an account, logs the user in and sets the session cookie
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "post-register login failed", err)
		return
	}

	if h.emailService.IsEnabled() {
		go func() {
			if err := h.emailService.SendWelcomeEmail(context.Background(), user.Email, user.Name); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	h.respondWithSession(w, session.ID, user.Name, user.Email, http.StatusCreated)
}

// Login authenticates and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	h.respondWithSession(w, session.ID, user.Name, user.Email, http.StatusOK)
}

// Logout ends the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondWithJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

// DeleteAccount removes the caller's account and all of its data, then
// clears the session cookie
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.authService.DeleteAccount(user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "account deletion failed", err)
		return
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Session reports who is logged in; the client calls it on startup to
// restore its session and fetch the CSRF token
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	user, err := h.authService.ValidateSession(cookie.Value)
	if err != nil {
		http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	h.respondWithSession(w, cookie.Value, user.Name, user.Email, http.StatusOK)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, sessionID, name, email string, status int) {
	token, err := h.csrf.GenerateToken(sessionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "csrf token generation failed", err)
		return
	}
	respondWithJSON(w, status, sessionResponse{Name: name, Email: email, CSRFToken: token})
}
