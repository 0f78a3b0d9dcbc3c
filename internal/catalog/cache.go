package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/MOR6969/vape-bill/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey() string
}

// RedisCache stores the catalog snapshot as JSON under a single key.
type RedisCache struct {
	client redisKV
	ttl    time.Duration
}

// NewRedisCache returns a cache backed by client. A zero ttl keeps the key forever.
func NewRedisCache(client redisKV, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Load returns the cached snapshot and false when nothing is cached.
func (c *RedisCache) Load(ctx context.Context) (Catalog, bool, error) {
	raw, err := c.client.Get(ctx, c.client.CatalogKey())
	if err != nil {
		if pkgredis.IsNil(err) {
			return Catalog{}, false, nil
		}
		return Catalog{}, false, fmt.Errorf("get catalog snapshot: %w", err)
	}
	var out Catalog
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Catalog{}, false, fmt.Errorf("decode catalog snapshot: %w", err)
	}
	return out, true, nil
}

// Save writes the snapshot.
func (c *RedisCache) Save(ctx context.Context, snapshot Catalog) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.client.CatalogKey(), raw, c.ttl); err != nil {
		return fmt.Errorf("set catalog snapshot: %w", err)
	}
	return nil
}
