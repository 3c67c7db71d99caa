package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/redis/go-redis/v9"
)

// Cache stores list reads per table. A change to a table bumps its version,
// which orphans every cached read of that table; orphans expire by TTL.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache { return &Cache{rdb: rdb} }

func (c *Cache) Version(ctx context.Context, table string) (int64, error) {
	v, err := c.rdb.Get(ctx, fmt.Sprintf(KeyTableVersion, table)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Invalidate drops every cached read of table.
func (c *Cache) Invalidate(ctx context.Context, table string) error {
	return c.rdb.Incr(ctx, fmt.Sprintf(KeyTableVersion, table)).Err()
}

// Remember returns the cached value for (table, query) or calls load and
// caches its result. Cache failures degrade to calling load directly; a
// nil cache always loads.
func Remember[T any](ctx context.Context, c *Cache, table, query string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	ver, err := c.Version(ctx, table)
	if err != nil {
		obs.Logger.Warn("cache version lookup failed", "table", table, "err", err)
		return load(ctx)
	}
	key := fmt.Sprintf(KeyListCache, table, ver, query)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, TTLListCache).Err(); err != nil {
			obs.Logger.Warn("cache store failed", "key", key, "err", err)
		}
	}
	return out, nil
}
