package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

const (
	productListKey = "cache:products"
	cacheTTL       = 30 * time.Second
)

// ProductCache caches the full product listing in Redis. It is a read-path
// optimisation only: entries expire after cacheTTL and every catalog
// mutation invalidates eagerly, so staleness is bounded either way.
type ProductCache struct {
	client *redis.Client
}

// NewProductCache creates a ProductCache wrapping the given Redis client.
func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

// Get returns the cached listing and whether it was present.
func (c *ProductCache) Get(ctx context.Context) ([]*domain.Product, bool, error) {
	raw, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("product cache get: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("product cache decode: %w", err)
	}
	return products, true, nil
}

// Set stores the listing with the cache TTL.
func (c *ProductCache) Set(ctx context.Context, products []*domain.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("product cache encode: %w", err)
	}
	return c.client.Set(ctx, productListKey, raw, cacheTTL).Err()
}

// Invalidate drops the cached listing.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, productListKey).Err()
}
