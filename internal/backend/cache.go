// internal/backend/cache.go
//
// Redis read-through for website-config documents.
//
// Context
// -------
// Website configs change rarely (a tenant edits their site in the
// dashboard) but are read on every public-site request.  When a Redis URL
// is configured, fetched documents are kept there under
// `website-config:<slug>` with a short TTL so a burst of traffic to one
// tenant costs one backend call per TTL window instead of one per request.
//
// The cache is deliberately owned by the HTTP client layer: the domain
// validator and the resolver never touch it.
package backend

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConfigCache wraps a Redis client with JSON marshalling and key layout.
type ConfigCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewConfigCache connects to redisURL ("redis://host:6379/0" or a bare
// "host:port") and returns a cache with the given TTL.
func NewConfigCache(redisURL string, ttl time.Duration) *ConfigCache {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}
	return &ConfigCache{rdb: redis.NewClient(opt), ttl: ttl}
}

// Ping verifies connectivity during boot.
func (c *ConfigCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *ConfigCache) Close() error { return c.rdb.Close() }

func configKey(slug string) string { return "website-config:" + slug }

// GetConfig unmarshals a cached document into dest.  redis.Nil (and any
// other error) is simply a miss to the caller.
func (c *ConfigCache) GetConfig(ctx context.Context, slug string, dest any) error {
	data, err := c.rdb.Get(ctx, configKey(slug)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetConfig stores a document with the configured TTL.  Failures are
// logged and swallowed: caching is an optimisation, never a dependency.
func (c *ConfigCache) SetConfig(ctx context.Context, slug string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		zap.S().Warnw("config cache marshal failed", "slug", slug, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, configKey(slug), data, c.ttl).Err(); err != nil {
		zap.S().Warnw("config cache write failed", "slug", slug, "err", err)
	}
}

// Invalidate drops one tenant's cached document (webhook from the
// dashboard on config save).
func (c *ConfigCache) Invalidate(ctx context.Context, slug string) error {
	return c.rdb.Del(ctx, configKey(slug)).Err()
}
