package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopfront/storefront/internal/api/metrics"
)

const scanBatch = 100

// ProductCache stores JSON-encoded catalog listings with a fixed TTL.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

// Get returns the cached bytes under key, or nil on a miss.
func (c *ProductCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ProductCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.ProductCacheTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("product cache get: %w", err)
	}
	metrics.ProductCacheTotal.WithLabelValues("hit").Inc()
	return b, nil
}

func (c *ProductCache) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("product cache encode: %w", err)
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

// DeleteByPrefix removes every key starting with prefix. It walks the keyspace
// with SCAN so large caches do not block the server.
func (c *ProductCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("product cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("product cache delete: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
