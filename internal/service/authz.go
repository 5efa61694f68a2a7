package service

import (
	"context"
	"fmt"

	"github.com/Marin-gh/shopping-app-backend/internal/domain"
	"github.com/Marin-gh/shopping-app-backend/internal/repository"
	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// AuthzGuard enforces ownership of products and reviews. Existence is
// always checked before ownership, so a caller probing someone else's
// deleted entity sees the same 404 as everyone else.
type AuthzGuard struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
}

// NewAuthzGuard creates an authorization guard over the given repositories.
func NewAuthzGuard(products repository.ProductRepository, reviews repository.ReviewRepository) *AuthzGuard {
	return &AuthzGuard{
		products: products,
		reviews:  reviews,
	}
}

// AuthorizeProduct loads the product and verifies the caller owns it.
func (g *AuthzGuard) AuthorizeProduct(ctx context.Context, productID, callerID string) (*domain.Product, error) {
	product, err := g.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("authorize product %s: %w", productID, err)
	}

	if product.AuthorID != callerID {
		return nil, apperrors.NotOwner("product")
	}
	return product, nil
}

// AuthorizeReview loads the review and verifies the caller wrote it.
func (g *AuthzGuard) AuthorizeReview(ctx context.Context, reviewID, callerID string) (*domain.Review, error) {
	review, err := g.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("authorize review %s: %w", reviewID, err)
	}

	if review.AuthorID != callerID {
		return nil, apperrors.NotOwner("review")
	}
	return review, nil
}
