package domain

import (
	"fmt"
	"time"

	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// Field length limits for users.
const (
	MaxNameLen  = 40
	MaxEmailLen = 100
)

// User represents a registered account. Products and Reviews hold back-link
// ids of entities authored by this user; the user owns nothing physically.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Products     []string  `json:"products"`
	Reviews      []string  `json:"reviews"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the user's field constraints.
func (u *User) Validate() error {
	if u.FirstName == "" {
		return apperrors.Validation("first name is required")
	}
	if len(u.FirstName) > MaxNameLen {
		return apperrors.Validation(fmt.Sprintf("first name must be at most %d characters", MaxNameLen))
	}
	if u.LastName == "" {
		return apperrors.Validation("last name is required")
	}
	if len(u.LastName) > MaxNameLen {
		return apperrors.Validation(fmt.Sprintf("last name must be at most %d characters", MaxNameLen))
	}
	if u.Email == "" {
		return apperrors.Validation("email is required")
	}
	if len(u.Email) > MaxEmailLen {
		return apperrors.Validation(fmt.Sprintf("email must be at most %d characters", MaxEmailLen))
	}
	return nil
}

// Public returns a copy safe for API responses, with the password hash
// stripped.
func (u *User) Public() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
