// Package cache implements a Redis-backed read cache for product
// documents. Cache errors are never fatal: callers fall through to the
// document store on any miss or failure.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Marin-gh/shopping-app-backend/internal/domain"
)

const (
	productKeyPrefix = "product:"
	listKey          = "products:all"
)

// ErrMiss reports a cache miss.
var ErrMiss = errors.New("cache miss")

// ProductCache caches product reads in Redis.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a product cache with the given TTL.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

// GetProduct retrieves a cached product by id. Returns ErrMiss when absent.
func (c *ProductCache) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	data, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redis get product: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal cached product: %w", err)
	}
	return &product, nil
}

// SetProduct caches a product with the configured TTL.
func (c *ProductCache) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	if err := c.client.Set(ctx, productKeyPrefix+product.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product: %w", err)
	}
	return nil
}

// GetList retrieves the cached product listing. Returns ErrMiss when absent.
func (c *ProductCache) GetList(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redis get product list: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal cached product list: %w", err)
	}
	return products, nil
}

// SetList caches the product listing with the configured TTL.
func (c *ProductCache) SetList(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal product list: %w", err)
	}

	if err := c.client.Set(ctx, listKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product list: %w", err)
	}
	return nil
}

// Invalidate drops the cached product and the listing. Called after any
// mutation that touches the product, including review cascades.
func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, productKeyPrefix+id, listKey).Err(); err != nil {
		return fmt.Errorf("redis del product: %w", err)
	}
	return nil
}
