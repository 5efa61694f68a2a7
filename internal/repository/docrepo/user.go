// Package docrepo implements the entity repositories on the document store.
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

// UserRepository stores users as documents.
type UserRepository struct {
	store docstore.Store
}

// NewUserRepository creates a user repository over the given store.
func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.store.Create(ctx, docstore.KindUser, user.ID, user)
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := r.store.Get(ctx, docstore.KindUser, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	docs, err := r.store.Find(ctx, docstore.KindUser, docstore.Filter{"email": email})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.NotFound("user", email)
	}

	var user domain.User
	if err := json.Unmarshal(docs[0], &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", email, err)
	}
	return &user, nil
}

// Update replaces an existing user document.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.store.Update(ctx, docstore.KindUser, user.ID, user)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NotFound("user", user.ID)
	}
	return err
}
