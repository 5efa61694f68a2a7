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

// ProductRepository stores products as documents.
type ProductRepository struct {
	store docstore.Store
}

// NewProductRepository creates a product repository over the given store.
func NewProductRepository(store docstore.Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// Create inserts a new product document.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.store.Create(ctx, docstore.KindProduct, product.ID, product)
}

// GetByID retrieves a product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	raw, err := r.store.Get(ctx, docstore.KindProduct, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NotFound("product", id)
	}
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	return &product, nil
}

// List returns all products, oldest first.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	docs, err := r.store.Find(ctx, docstore.KindProduct, nil)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(docs))
	for _, raw := range docs {
		var product domain.Product
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, product)
	}
	return products, nil
}

// Update replaces an existing product document.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	err := r.store.Update(ctx, docstore.KindProduct, product.ID, product)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NotFound("product", product.ID)
	}
	return err
}

// Delete removes a product document.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, docstore.KindProduct, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NotFound("product", id)
	}
	return err
}
