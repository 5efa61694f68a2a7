package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Marin-gh/shopping-app-backend/internal/repository"
	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// RefMaintainer owns the denormalized back-links between documents: the
// product id list on a user, the review id list on a user, and the review
// id list on a product. Every mutation is a read-modify-write of a single
// document, so callers must hold the keyed lock for the parent entity.
//
// Detach operations are idempotent. A back-link that is already gone, or a
// parent document that no longer exists, is treated as a gap left by an
// earlier interrupted cascade: logged and absorbed, never an error.
type RefMaintainer struct {
	users    repository.UserRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewRefMaintainer creates a reference maintainer over the given repositories.
func NewRefMaintainer(users repository.UserRepository, products repository.ProductRepository, logger *slog.Logger) *RefMaintainer {
	return &RefMaintainer{
		users:    users,
		products: products,
		logger:   logger,
	}
}

// AttachProductToUser appends the product id to the user's product list.
func (m *RefMaintainer) AttachProductToUser(ctx context.Context, userID, productID string) error {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("attach product %s to user %s: %w", productID, userID, err)
	}

	list, changed := appendID(user.Products, productID)
	if !changed {
		return nil
	}
	user.Products = list

	if err := m.users.Update(ctx, user); err != nil {
		return fmt.Errorf("attach product %s to user %s: %w", productID, userID, err)
	}
	return nil
}

// DetachProductFromUser removes the product id from the user's product list.
func (m *RefMaintainer) DetachProductFromUser(ctx context.Context, userID, productID string) error {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			m.logger.WarnContext(ctx, "detach product: owner already gone",
				slog.String("user_id", userID),
				slog.String("product_id", productID),
			)
			return nil
		}
		return fmt.Errorf("detach product %s from user %s: %w", productID, userID, err)
	}

	list, changed := removeID(user.Products, productID)
	if !changed {
		m.logger.DebugContext(ctx, "detach product: back-link already absent",
			slog.String("user_id", userID),
			slog.String("product_id", productID),
		)
		return nil
	}
	user.Products = list

	if err := m.users.Update(ctx, user); err != nil {
		return fmt.Errorf("detach product %s from user %s: %w", productID, userID, err)
	}
	return nil
}

// AttachReviewToUser appends the review id to the user's review list.
func (m *RefMaintainer) AttachReviewToUser(ctx context.Context, userID, reviewID string) error {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("attach review %s to user %s: %w", reviewID, userID, err)
	}

	list, changed := appendID(user.Reviews, reviewID)
	if !changed {
		return nil
	}
	user.Reviews = list

	if err := m.users.Update(ctx, user); err != nil {
		return fmt.Errorf("attach review %s to user %s: %w", reviewID, userID, err)
	}
	return nil
}

// DetachReviewFromUser removes the review id from the user's review list.
func (m *RefMaintainer) DetachReviewFromUser(ctx context.Context, userID, reviewID string) error {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			m.logger.WarnContext(ctx, "detach review: author already gone",
				slog.String("user_id", userID),
				slog.String("review_id", reviewID),
			)
			return nil
		}
		return fmt.Errorf("detach review %s from user %s: %w", reviewID, userID, err)
	}

	list, changed := removeID(user.Reviews, reviewID)
	if !changed {
		m.logger.DebugContext(ctx, "detach review: back-link already absent",
			slog.String("user_id", userID),
			slog.String("review_id", reviewID),
		)
		return nil
	}
	user.Reviews = list

	if err := m.users.Update(ctx, user); err != nil {
		return fmt.Errorf("detach review %s from user %s: %w", reviewID, userID, err)
	}
	return nil
}

// AttachReviewToProduct appends the review id to the product's review list.
// The average rating is updated separately by the rating aggregator.
func (m *RefMaintainer) AttachReviewToProduct(ctx context.Context, productID, reviewID string) error {
	product, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("attach review %s to product %s: %w", reviewID, productID, err)
	}

	list, changed := appendID(product.Reviews, reviewID)
	if !changed {
		return nil
	}
	product.Reviews = list

	if err := m.products.Update(ctx, product); err != nil {
		return fmt.Errorf("attach review %s to product %s: %w", reviewID, productID, err)
	}
	return nil
}

// DetachReviewFromProduct removes the review id from the product's review list.
func (m *RefMaintainer) DetachReviewFromProduct(ctx context.Context, productID, reviewID string) error {
	product, err := m.products.GetByID(ctx, productID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			m.logger.WarnContext(ctx, "detach review: product already gone",
				slog.String("product_id", productID),
				slog.String("review_id", reviewID),
			)
			return nil
		}
		return fmt.Errorf("detach review %s from product %s: %w", reviewID, productID, err)
	}

	list, changed := removeID(product.Reviews, reviewID)
	if !changed {
		m.logger.DebugContext(ctx, "detach review: back-link already absent",
			slog.String("product_id", productID),
			slog.String("review_id", reviewID),
		)
		return nil
	}
	product.Reviews = list

	if err := m.products.Update(ctx, product); err != nil {
		return fmt.Errorf("detach review %s from product %s: %w", reviewID, productID, err)
	}
	return nil
}

// appendID adds id to the list unless it is already present.
func appendID(list []string, id string) ([]string, bool) {
	for _, existing := range list {
		if existing == id {
			return list, false
		}
	}
	return append(list, id), true
}

// removeID drops id from the list, preserving order.
func removeID(list []string, id string) ([]string, bool) {
	for i, existing := range list {
		if existing == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}
