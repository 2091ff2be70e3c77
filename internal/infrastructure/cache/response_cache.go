// Package cache provides the redis-backed response cache used by the
// response boundary middleware. The cache is an optimization only: every
// failure degrades to a miss and is logged, never surfaced to callers.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ResponseCache stores serialized response envelopes keyed by client
// identity, method, path and project scope
type ResponseCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a response cache connected to Redis
func New(cfg config.RedisConfig, cacheCfg config.CacheConfig, logger *zap.Logger) (*ResponseCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, cacheCfg, logger), nil
}

// NewWithClient creates a response cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewWithClient(client *redis.Client, cacheCfg config.CacheConfig, logger *zap.Logger) *ResponseCache {
	prefix := cacheCfg.KeyPrefix
	if prefix == "" {
		prefix = "cache"
	}
	ttl := cacheCfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Key derives the cache key for a request. The projectID part is omitted
// when the request carries no project scope.
func (c *ResponseCache) Key(clientID, method, path, projectID string) string {
	key := fmt.Sprintf("%s:%s:%s:%s", c.prefix, clientID, method, path)
	if projectID != "" {
		key += ":project:" + projectID
	}
	return key
}

// ProjectPattern returns the glob matching every cached GET response scoped
// to a project
func (c *ResponseCache) ProjectPattern(projectID string) string {
	return fmt.Sprintf("%s:*:GET:*%s*", c.prefix, projectID)
}

// ResourcePattern returns the glob matching every cached GET response
// referencing a resource id
func (c *ResponseCache) ResourcePattern(resourceID string) string {
	return fmt.Sprintf("%s:*:GET:*%s*", c.prefix, resourceID)
}

// Get returns the stored envelope for the key, or false on miss. Store
// errors are logged and reported as misses.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

// Set stores an envelope under the key with the configured TTL. Best-effort.
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate deletes every key matching any of the patterns. The pattern
// sets may overlap; deletion is the union. Best-effort: failures are logged
// and the number of keys actually removed is returned.
func (c *ResponseCache) Invalidate(ctx context.Context, patterns ...string) int {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			seen[iter.Val()] = struct{}{}
		}
		if err := iter.Err(); err != nil {
			c.logger.Error("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
	if len(seen) == 0 {
		return 0
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	deleted, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("cache invalidation failed", zap.Int("keys", len(keys)), zap.Error(err))
		return 0
	}
	c.logger.Info("cache invalidated",
		zap.Strings("patterns", patterns),
		zap.Int64("keys_cleared", deleted),
	)
	return int(deleted)
}

// Close closes the underlying Redis client
func (c *ResponseCache) Close() error {
	return c.client.Close()
}
