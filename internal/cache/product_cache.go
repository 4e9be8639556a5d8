package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/config"
	"github.com/andresuchdata/storeops/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ProductCatalogCache shares product details between sessions and server instances.
type ProductCatalogCache interface {
	// GetProducts returns the cached details among ids and the ids that were not cached.
	GetProducts(ctx context.Context, ids []string) ([]domain.ProductDetails, []string, error)
	SetProducts(ctx context.Context, products []domain.ProductDetails) error
	InvalidateAll(ctx context.Context) error
}

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopProductCache struct{}

func NewProductCatalogCache(cfg config.CacheConfig) (ProductCatalogCache, error) {
	if !cfg.Enabled {
		return &noopProductCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisProductCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopProductCatalogCache() ProductCatalogCache {
	return &noopProductCache{}
}

func (c *redisProductCache) GetProducts(ctx context.Context, ids []string) ([]domain.ProductDetails, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	values, err := c.client.MGet(ctx, productKeys(ids)...).Result()
	if err != nil {
		return nil, ids, fmt.Errorf("redis mget failed: %w", err)
	}

	var (
		found   []domain.ProductDetails
		missing []string
	)
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}

		var details domain.ProductDetails
		if err := json.Unmarshal([]byte(raw), &details); err != nil {
			log.Warn().Err(err).Str("product_id", ids[i]).Msg("product cache: dropping undecodable entry")
			missing = append(missing, ids[i])
			continue
		}
		found = append(found, details)
	}

	return found, missing, nil
}

func (c *redisProductCache) SetProducts(ctx context.Context, products []domain.ProductDetails) error {
	if len(products) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, p := range products {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode product cache: %w", err)
		}
		pipe.Set(ctx, productKey(p.ProductID), payload, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline set failed: %w", err)
	}
	return nil
}

func (c *redisProductCache) InvalidateAll(ctx context.Context) error {
	return deleteProductKeys(ctx, c.client)
}

func (n *noopProductCache) GetProducts(ctx context.Context, ids []string) ([]domain.ProductDetails, []string, error) {
	return nil, ids, nil
}

func (n *noopProductCache) SetProducts(ctx context.Context, products []domain.ProductDetails) error {
	return nil
}

func (n *noopProductCache) InvalidateAll(ctx context.Context) error {
	return nil
}
