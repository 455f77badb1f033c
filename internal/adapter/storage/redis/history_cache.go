package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// HistoryCache implements ports.HistoryCache using Redis. Values are
// serialized transaction view lists; keys already carry the
// "history:<kind>:" prefix, so no extra namespacing happens here.
type HistoryCache struct {
	client *goredis.Client
}

// NewHistoryCache creates a new Redis-backed history cache.
func NewHistoryCache(client *goredis.Client) *HistoryCache {
	return &HistoryCache{client: client}
}

// Get retrieves a cached history payload.
// Returns nil, nil if the key does not exist.
func (c *HistoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis history get: %w", err)
	}
	return val, nil
}

// Set stores a history payload with TTL.
func (c *HistoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis history set: %w", err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (c *HistoryCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis history delete: %w", err)
	}
	return nil
}
