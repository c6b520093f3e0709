package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Limits for user supplied note fields.
const (
	MaxNoteTitleLength   = 200
	MaxNoteContentLength = 10000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateNoteTitle checks a note title
func ValidateNoteTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if len(title) > MaxNoteTitleLength {
		return ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", MaxNoteTitleLength)}
	}
	return nil
}

// ValidateNoteContent checks a note body
func ValidateNoteContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ValidationError{Field: "content", Message: "content is required"}
	}
	if len(content) > MaxNoteContentLength {
		return ValidationError{Field: "content", Message: fmt.Sprintf("content must be at most %d characters", MaxNoteContentLength)}
	}
	return nil
}

// SanitizeText trims whitespace and drops control characters except newlines
// and tabs. Output is stored verbatim; HTML escaping happens at render time.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		if r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
