// Package repository provides typed entity accessors over the document store.
package repository

import (
	"context"

	"github.com/Marin-gh/shopping-app-backend/internal/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update replaces an existing user document.
	Update(ctx context.Context, user *domain.User) error
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns all products, oldest first.
	List(ctx context.Context) ([]domain.Product, error)

	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProductID returns every review whose product reference matches,
	// straight from the source of truth rather than any cached list.
	ListByProductID(ctx context.Context, productID string) ([]domain.Review, error)

	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
}
