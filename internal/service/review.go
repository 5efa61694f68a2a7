package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Marin-gh/shopping-app-backend/internal/cache"
	"github.com/Marin-gh/shopping-app-backend/internal/domain"
	"github.com/Marin-gh/shopping-app-backend/internal/event"
	"github.com/Marin-gh/shopping-app-backend/internal/repository"
	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID string
	AuthorID  string
	Body      string
	Rating    int
}

// UpdateReviewInput holds the patch fields for editing a review. Nil fields
// are left unchanged.
type UpdateReviewInput struct {
	Body   *string
	Rating *int
}

// ReviewService implements the business logic for review operations. A
// review's lifecycle touches three documents: the review itself, the
// product's review list and cached rating, and the author's review list.
// The review document is the primary write; reference updates after it
// are best effort and logged when they fail.
type ReviewService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	refs     *RefMaintainer
	rating   *RatingAggregator
	guard    *AuthzGuard
	cache    *cache.ProductCache
	events   *event.Producer
	locks    *KeyedMutex
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	refs *RefMaintainer,
	rating *RatingAggregator,
	guard *AuthzGuard,
	productCache *cache.ProductCache,
	events *event.Producer,
	locks *KeyedMutex,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		products: products,
		reviews:  reviews,
		refs:     refs,
		rating:   rating,
		guard:    guard,
		cache:    productCache,
		events:   events,
		locks:    locks,
		logger:   logger,
	}
}

// CreateReview creates a review for an existing product, attaches it to
// the product's and the author's review lists, and folds its rating into
// the product's cached average.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	review := &domain.Review{
		ID:        uuid.New().String(),
		Body:      input.Body,
		Rating:    input.Rating,
		AuthorID:  input.AuthorID,
		ProductID: input.ProductID,
		CreatedAt: time.Now().UTC(),
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.LockAll(input.ProductID, input.AuthorID)
	defer unlock()

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.refs.AttachReviewToProduct(ctx, input.ProductID, review.ID); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("create review", err))
	} else if err := s.rating.Apply(ctx, input.ProductID, review.Rating); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("create review", err))
	}

	if err := s.refs.AttachReviewToUser(ctx, input.AuthorID, review.ID); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("create review", err))
	}

	s.invalidateCache(ctx, input.ProductID)

	if err := s.events.PublishReviewCreated(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.created", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.String("author_id", review.AuthorID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListReviews returns every review for the product, oldest first. The
// product must exist; the listing reads reviews from the source of truth
// rather than the product's cached id list.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviews, err := s.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// UpdateReview applies a partial edit to a review written by the caller.
// A rating change invalidates the product's cached average, so it triggers
// a full recompute from the surviving reviews.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, callerID string, input *UpdateReviewInput) (*domain.Review, error) {
	// Unlocked pass to learn the lock set.
	review, err := s.guard.AuthorizeReview(ctx, reviewID, callerID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.LockAll(review.ProductID, review.AuthorID)
	defer unlock()

	review, err = s.guard.AuthorizeReview(ctx, reviewID, callerID)
	if err != nil {
		return nil, err
	}

	ratingChanged := false
	if input.Body != nil {
		review.Body = *input.Body
	}
	if input.Rating != nil && *input.Rating != review.Rating {
		review.Rating = *input.Rating
		ratingChanged = true
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if ratingChanged {
		if err := s.rating.Recompute(ctx, review.ProductID); err != nil {
			s.logPartial(ctx, apperrors.PartialConsistency("update review", err))
		}
	}

	s.invalidateCache(ctx, review.ProductID)

	if err := s.events.PublishReviewUpdated(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.updated", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Bool("rating_changed", ratingChanged),
	)

	return review, nil
}

// DeleteReview removes a review written by the caller, detaches it from
// the product's and the author's review lists, and recomputes the
// product's average rating from the reviews that remain.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, callerID string) error {
	// Unlocked pass to learn the lock set.
	review, err := s.guard.AuthorizeReview(ctx, reviewID, callerID)
	if err != nil {
		return err
	}

	unlock := s.locks.LockAll(review.ProductID, review.AuthorID)
	defer unlock()

	review, err = s.guard.AuthorizeReview(ctx, reviewID, callerID)
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if err := s.refs.DetachReviewFromProduct(ctx, review.ProductID, reviewID); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("delete review", err))
	} else if err := s.rating.Recompute(ctx, review.ProductID); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("delete review", err))
	}

	if err := s.refs.DetachReviewFromUser(ctx, review.AuthorID, reviewID); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("delete review", err))
	}

	s.invalidateCache(ctx, review.ProductID)

	if err := s.events.PublishReviewDeleted(ctx, reviewID, review.ProductID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.deleted", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", reviewID),
		slog.String("product_id", review.ProductID),
	)

	return nil
}

func (s *ReviewService) invalidateCache(ctx context.Context, productID string) {
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *ReviewService) logPartial(ctx context.Context, err error) {
	s.logger.ErrorContext(ctx, "cascade left stale references", slog.String("error", err.Error()))
}
