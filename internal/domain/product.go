package domain

import (
	"fmt"
	"time"

	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// Field length limits for products.
const (
	MaxTitleLen       = 20
	MaxDescriptionLen = 150
)

// Image is an uploaded product image. Key is the blob-storage handle used
// to release the object when the product is deleted.
type Image struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Product represents a marketplace listing.
//
// Reviews and AvgRating are derived, cached state: the source of truth is
// the set of Review documents whose ProductID equals this product's ID, and
// the cached values must always equal a recomputation from that set.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Images      []Image   `json:"images"`
	AvgRating   float64   `json:"avg_rating"`
	AuthorID    string    `json:"author_id"`
	Reviews     []string  `json:"reviews"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the product's field constraints.
func (p *Product) Validate() error {
	if p.Title == "" {
		return apperrors.Validation("title is required")
	}
	if len(p.Title) > MaxTitleLen {
		return apperrors.Validation(fmt.Sprintf("title must be at most %d characters", MaxTitleLen))
	}
	if p.Description == "" {
		return apperrors.Validation("description is required")
	}
	if len(p.Description) > MaxDescriptionLen {
		return apperrors.Validation(fmt.Sprintf("description must be at most %d characters", MaxDescriptionLen))
	}
	if p.Price < 0 {
		return apperrors.Validation("price must not be negative")
	}
	if p.Location == "" {
		return apperrors.Validation("location is required")
	}
	return nil
}
