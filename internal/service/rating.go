package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Marin-gh/shopping-app-backend/internal/repository"
)

// RatingAggregator maintains the cached average rating on a product.
// Callers must hold the keyed lock for the product while aggregating.
type RatingAggregator struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	logger   *slog.Logger
}

// NewRatingAggregator creates a rating aggregator over the given repositories.
func NewRatingAggregator(products repository.ProductRepository, reviews repository.ReviewRepository, logger *slog.Logger) *RatingAggregator {
	return &RatingAggregator{
		products: products,
		reviews:  reviews,
		logger:   logger,
	}
}

// Apply folds one new rating into the product's cached average without
// rereading every review. The review count is taken from the product's
// review list, which must already include the new review.
func (a *RatingAggregator) Apply(ctx context.Context, productID string, rating int) error {
	product, err := a.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("apply rating to product %s: %w", productID, err)
	}

	count := len(product.Reviews)
	if count == 0 {
		// The review list should have been updated first. Fall back to a
		// full recompute rather than dividing by zero.
		return a.Recompute(ctx, productID)
	}
	product.AvgRating = (product.AvgRating*float64(count-1) + float64(rating)) / float64(count)

	if err := a.products.Update(ctx, product); err != nil {
		return fmt.Errorf("apply rating to product %s: %w", productID, err)
	}

	a.logger.DebugContext(ctx, "rating applied",
		slog.String("product_id", productID),
		slog.Int("rating", rating),
		slog.Float64("avg_rating", product.AvgRating),
	)

	return nil
}

// Recompute rebuilds the product's average rating from the reviews that
// actually reference it, ignoring the cached review list. An empty result
// resets the average to zero.
func (a *RatingAggregator) Recompute(ctx context.Context, productID string) error {
	product, err := a.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("recompute rating for product %s: %w", productID, err)
	}

	reviews, err := a.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return fmt.Errorf("recompute rating for product %s: %w", productID, err)
	}

	var avg float64
	if len(reviews) > 0 {
		var sum int
		for _, review := range reviews {
			sum += review.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}
	product.AvgRating = avg

	if err := a.products.Update(ctx, product); err != nil {
		return fmt.Errorf("recompute rating for product %s: %w", productID, err)
	}

	a.logger.DebugContext(ctx, "rating recomputed",
		slog.String("product_id", productID),
		slog.Int("review_count", len(reviews)),
		slog.Float64("avg_rating", avg),
	)

	return nil
}
