package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Marin-gh/shopping-app-backend/internal/cache"
	"github.com/Marin-gh/shopping-app-backend/internal/domain"
	"github.com/Marin-gh/shopping-app-backend/internal/event"
	"github.com/Marin-gh/shopping-app-backend/internal/repository"
	"github.com/Marin-gh/shopping-app-backend/internal/storage"
	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

// ImageUpload is one image file submitted with a product.
type ImageUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	AuthorID    string
	Images      []ImageUpload
}

// UpdateProductInput holds the patch fields for updating a product. Nil
// fields are left unchanged; new images are appended.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	Images      []ImageUpload
}

// ProductService implements the business logic for product operations,
// including the reference cascades that keep user back-links, review
// documents and image blobs aligned with the product's lifecycle.
type ProductService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	refs     *RefMaintainer
	rating   *RatingAggregator
	guard    *AuthzGuard
	storage  storage.Storage
	cache    *cache.ProductCache
	events   *event.Producer
	locks    *KeyedMutex
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	refs *RefMaintainer,
	rating *RatingAggregator,
	guard *AuthzGuard,
	store storage.Storage,
	productCache *cache.ProductCache,
	events *event.Producer,
	locks *KeyedMutex,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		reviews:  reviews,
		refs:     refs,
		rating:   rating,
		guard:    guard,
		storage:  store,
		cache:    productCache,
		events:   events,
		locks:    locks,
		logger:   logger,
	}
}

// CreateProduct uploads the submitted images, creates the product document
// and attaches it to the author's product list. Upload failures abort the
// whole operation; a failed back-link attach after the document exists is
// logged and absorbed.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		AuthorID:    input.AuthorID,
		Reviews:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	images, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}
	product.Images = images

	unlock := s.locks.LockAll(product.ID, input.AuthorID)
	defer unlock()

	if err := s.products.Create(ctx, product); err != nil {
		s.releaseImages(ctx, product.Images)
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.refs.AttachProductToUser(ctx, input.AuthorID, product.ID); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("create product", err))
	}

	s.invalidateCache(ctx, product.ID)

	if err := s.events.PublishProductCreated(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.created", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("author_id", product.AuthorID),
		slog.Int("images", len(product.Images)),
	)

	return product, nil
}

// GetProduct retrieves a product by id, serving from the read cache when
// possible.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "product cache read failed", slog.String("error", err.Error()))
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "product cache write failed", slog.String("error", err.Error()))
	}

	return product, nil
}

// ListProducts returns all products, oldest first.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if cached, err := s.cache.GetList(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "product list cache read failed", slog.String("error", err.Error()))
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if err := s.cache.SetList(ctx, products); err != nil {
		s.logger.WarnContext(ctx, "product list cache write failed", slog.String("error", err.Error()))
	}

	return products, nil
}

// UpdateProduct applies a partial update to a product owned by the caller.
func (s *ProductService) UpdateProduct(ctx context.Context, productID, callerID string, input *UpdateProductInput) (*domain.Product, error) {
	// Unlocked pass so a denied caller never costs blob uploads.
	if _, err := s.guard.AuthorizeProduct(ctx, productID, callerID); err != nil {
		return nil, err
	}

	images, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.LockAll(productID)
	defer unlock()

	product, err := s.guard.AuthorizeProduct(ctx, productID, callerID)
	if err != nil {
		s.releaseImages(ctx, images)
		return nil, err
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Location != nil {
		product.Location = *input.Location
	}
	product.Images = append(product.Images, images...)
	product.UpdatedAt = time.Now().UTC()

	if err := product.Validate(); err != nil {
		s.releaseImages(ctx, images)
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.releaseImages(ctx, images)
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, product.ID)

	if err := s.events.PublishProductUpdated(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.updated", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", product.ID))

	return product, nil
}

// DeleteProduct removes a product owned by the caller, then cascades:
// every review referencing the product is deleted and detached from its
// author, the product is detached from the owner's list, and the image
// blobs are released. The product document is the primary write; cascade
// failures after it are logged and absorbed, never rolled back.
func (s *ProductService) DeleteProduct(ctx context.Context, productID, callerID string) error {
	// Optimistic pass to learn the lock set before taking any locks.
	product, err := s.guard.AuthorizeProduct(ctx, productID, callerID)
	if err != nil {
		return err
	}
	reviews, err := s.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	keys := []string{productID, product.AuthorID}
	for _, review := range reviews {
		keys = append(keys, review.AuthorID)
	}
	unlock := s.locks.LockAll(keys...)
	defer unlock()

	// Reload under the locks. Reviews written between the two passes by an
	// author outside the lock set are a tolerated race: their detach gaps
	// are absorbed like any other interrupted cascade.
	product, err = s.guard.AuthorizeProduct(ctx, productID, callerID)
	if err != nil {
		return err
	}
	reviews, err = s.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	for _, review := range reviews {
		if err := s.reviews.Delete(ctx, review.ID); err != nil && !apperrors.IsNotFound(err) {
			s.logPartial(ctx, apperrors.PartialConsistency("delete product", err))
			continue
		}
		if err := s.refs.DetachReviewFromUser(ctx, review.AuthorID, review.ID); err != nil {
			s.logPartial(ctx, apperrors.PartialConsistency("delete product", err))
		}
	}

	if err := s.refs.DetachProductFromUser(ctx, product.AuthorID, productID); err != nil {
		s.logPartial(ctx, apperrors.PartialConsistency("delete product", err))
	}

	s.releaseImages(ctx, product.Images)
	s.invalidateCache(ctx, productID)

	if err := s.events.PublishProductDeleted(ctx, productID, product.AuthorID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.deleted", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", productID),
		slog.Int("reviews_cascaded", len(reviews)),
	)

	return nil
}

// uploadImages uploads every submitted image, cleaning up the ones already
// stored when a later upload fails.
func (s *ProductService) uploadImages(ctx context.Context, uploads []ImageUpload) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(uploads))
	for _, upload := range uploads {
		result, err := s.storage.Upload(ctx, &storage.UploadInput{
			Name:        upload.Name,
			ContentType: upload.ContentType,
			Data:        bytes.NewReader(upload.Data),
		})
		if err != nil {
			s.releaseImages(ctx, images)
			return nil, apperrors.Storage("upload", err)
		}
		images = append(images, domain.Image{URL: result.URL, Key: result.Key})
	}
	return images, nil
}

// releaseImages deletes image blobs best effort.
func (s *ProductService) releaseImages(ctx context.Context, images []domain.Image) {
	for _, image := range images {
		if err := s.storage.Delete(ctx, image.Key); err != nil {
			s.logger.WarnContext(ctx, "failed to release image blob",
				slog.String("key", image.Key),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *ProductService) invalidateCache(ctx context.Context, productID string) {
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *ProductService) logPartial(ctx context.Context, err error) {
	s.logger.ErrorContext(ctx, "cascade left stale references", slog.String("error", err.Error()))
}
