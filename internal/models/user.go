package models

import "time"

// User represents a stored credential record. The credential backend is a
// keyed lookup with hashed passwords, not a hardened identity system; the
// core only consumes the resulting name/email after login succeeds.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
