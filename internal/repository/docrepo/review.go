package docrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Marin-gh/shopping-app-backend/internal/docstore"
	"github.com/Marin-gh/shopping-app-backend/internal/domain"
	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// ReviewRepository stores reviews as documents.
type ReviewRepository struct {
	store docstore.Store
}

// NewReviewRepository creates a review repository over the given store.
func NewReviewRepository(store docstore.Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// Create inserts a new review document.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.store.Create(ctx, docstore.KindReview, review.ID, review)
}

// GetByID retrieves a review by id.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	raw, err := r.store.Get(ctx, docstore.KindReview, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("review", id)
	}
	if err != nil {
		return nil, err
	}

	var review domain.Review
	if err := json.Unmarshal(raw, &review); err != nil {
		return nil, fmt.Errorf("decode review %s: %w", id, err)
	}
	return &review, nil
}

// ListByProductID returns every review referencing the product, oldest first.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
	docs, err := r.store.Find(ctx, docstore.KindReview, docstore.Filter{"product_id": productID})
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(docs))
	for _, raw := range docs {
		var review domain.Review
		if err := json.Unmarshal(raw, &review); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// Update replaces an existing review document.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	err := r.store.Update(ctx, docstore.KindReview, review.ID, review)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NotFound("review", review.ID)
	}
	return err
}

// Delete removes a review document.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, docstore.KindReview, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NotFound("review", id)
	}
	return err
}
