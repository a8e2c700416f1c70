// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/pokepoll/models"
)

// Cache stores catalog lookups by normalized name. Implementations must be
// safe for concurrent use; a failing cache behaves as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (models.ItemAttrs, bool)
	Set(ctx context.Context, key string, attrs models.ItemAttrs, ttl time.Duration)
}

type memoryEntry struct {
	attrs     models.ItemAttrs
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (models.ItemAttrs, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return models.ItemAttrs{}, false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return models.ItemAttrs{}, false
	}
	return e.attrs, true
}

func (c *MemoryCache) Set(_ context.Context, key string, attrs models.ItemAttrs, ttl time.Duration) {
	e := memoryEntry{attrs: attrs}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// RedisCache shares lookups between instances.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the Redis server at rawURL (redis://host:port/db).
func NewRedisCache(rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts), prefix: "pokepoll:catalog:"}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (models.ItemAttrs, bool) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("catalog cache read failed", "key", key, "error", err)
		}
		return models.ItemAttrs{}, false
	}
	var attrs models.ItemAttrs
	if err := json.Unmarshal(b, &attrs); err != nil {
		slog.Warn("catalog cache entry corrupt", "key", key, "error", err)
		return models.ItemAttrs{}, false
	}
	return attrs, true
}

func (c *RedisCache) Set(ctx context.Context, key string, attrs models.ItemAttrs, ttl time.Duration) {
	b, err := json.Marshal(attrs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, b, ttl).Err(); err != nil {
		slog.Warn("catalog cache write failed", "key", key, "error", err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
