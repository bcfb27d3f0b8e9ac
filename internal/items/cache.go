package items

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "items:version"

// Cache wraps Redis based caching of list pages with version bumping as the
// invalidation mechanism: every mutation bumps the version, which orphans
// all keys built against the previous one. A nil cache is a pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// buildKey composes the cache key with the current version.
func (c *Cache) buildKey(ctx context.Context, parts ...string) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", strings.Join(parts, ":"), ver), nil
}

// FetchPage loads a cached page or populates it using the loader.
func (c *Cache) FetchPage(ctx context.Context, keyParts []string, loader func(context.Context) (*Page, error)) (*Page, error) {
	if loader == nil {
		return nil, errors.New("items: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	key, err := c.buildKey(ctx, keyParts...)
	if err != nil {
		return loader(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var page Page
		if err := json.Unmarshal(payload, &page); err == nil {
			return &page, nil
		}
	}
	page, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(page); err == nil {
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	return page, nil
}

// Bump invalidates cached pages by incrementing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}
