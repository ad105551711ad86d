package redis

import (
	"context"
	"fmt"
	"time"
)

const defaultInsightTTL = 10 * time.Minute

// InsightCache stores generated insight text in Redis so repeat requests
// skip the gateway. Key naming is owned by the insight package; entries
// expire, and the store remains the source of truth for summaries persisted
// onto sessions.
type InsightCache struct {
	client *Client
	ttl    time.Duration
}

// NewInsightCache creates a new insight cache
func NewInsightCache(client *Client, ttl time.Duration) *InsightCache {
	if ttl <= 0 {
		ttl = defaultInsightTTL
	}
	return &InsightCache{client: client, ttl: ttl}
}

// Get retrieves a cached insight text; a miss returns ok=false, not an error
func (c *InsightCache) Get(ctx context.Context, key string) (string, bool) {
	text, err := c.client.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return text, true
}

// Set caches an insight text under the given key
func (c *InsightCache) Set(ctx context.Context, key, text string) error {
	if err := c.client.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache insight: %w", err)
	}
	return nil
}

// Invalidate removes a cached insight
func (c *InsightCache) Invalidate(ctx context.Context, key string) error {
	return c.client.rdb.Del(ctx, key).Err()
}
