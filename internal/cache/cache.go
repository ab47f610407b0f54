package cache

import (
	"context"
	"time"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
)

// ProductCache caches catalogue lookups in front of the product repository.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, bool, error)
	Set(ctx context.Context, productID string, product *domain.Product, ttl time.Duration) error
}

// NoopProductCache satisfies ProductCache without caching anything. Used
// when no redis address is configured, and in tests.
type NoopProductCache struct{}

func (NoopProductCache) Get(_ context.Context, _ string) (*domain.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) Set(_ context.Context, _ string, _ *domain.Product, _ time.Duration) error {
	return nil
}
