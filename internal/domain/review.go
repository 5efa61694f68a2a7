package domain

import (
	"fmt"
	"time"

	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// Field and rating limits for reviews.
const (
	MaxBodyLen = 300
	MinRating  = 1
	MaxRating  = 5
)

// Review represents a product review submitted by a user.
type Review struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Rating    int       `json:"rating"`
	AuthorID  string    `json:"author_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the review's field constraints.
func (r *Review) Validate() error {
	if r.Body == "" {
		return apperrors.Validation("body is required")
	}
	if len(r.Body) > MaxBodyLen {
		return apperrors.Validation(fmt.Sprintf("body must be at most %d characters", MaxBodyLen))
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return apperrors.Validation(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	return nil
}
