package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"parentuni/internal/models"
	"parentuni/internal/repository"
	"parentuni/internal/security"
	"parentuni/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	states          *StateService
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, states *StateService, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		states:          states,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account and seeds its course state
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.seedAccountState(user)

	return user, nil
}

// seedAccountState writes the account block into the course state so the
// next load routes straight to the home screen. Failing here never fails
// the signup.
func (s *AuthService) seedAccountState(user *models.User) {
	if s.states == nil {
		return
	}
	account := models.Account{
		Name:          user.Name,
		Email:         user.Email,
		Notifications: true,
		CreatedAt:     user.CreatedAt,
	}
	if _, err := s.states.Update(user.ID, models.StatePatch{Account: &account}); err != nil {
		log.Printf("Warning: failed to seed state for user %s: %v", user.ID, err)
	}
}

// Login authenticates a user, creates a session and records the login
// for the daily streak
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(user)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

func (s *AuthService) createSession(user *models.User) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.states != nil {
		if _, err := s.states.RecordLogin(user.ID); err != nil {
			log.Printf("Warning: failed to record login for user %s: %v", user.ID, err)
		}
	}

	return session, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// DeleteAccount removes the user and, through cascading deletes, every
// session, state record and note belonging to it
func (s *AuthService) DeleteAccount(userID string) error {
	if err := s.userRepo.DeleteUser(userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a user using an OAuth provider.
// A matching email on a password account links the provider to it; a
// brand new identity gets a fresh account with seeded course state.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		existingUser, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if existingUser != nil {
			if existingUser.OAuthProvider != "" && existingUser.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.userRepo.LinkOAuthProvider(existingUser.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			if existingUser.Name == "" && name != "" {
				if err := s.userRepo.UpdateUserName(existingUser.ID, name); err != nil {
					log.Printf("Warning: failed to backfill name for user %s: %v", existingUser.ID, err)
				} else {
					existingUser.Name = name
				}
			}
			user = existingUser
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			newUser, err := s.userRepo.CreateOAuthUser(email, name, provider, subject)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
			}
			user = newUser

			s.seedAccountState(user)
		}
	}

	session, err := s.createSession(user)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}
