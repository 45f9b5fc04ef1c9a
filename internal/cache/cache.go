// Package cache implements a redis-backed query-result cache. It takes
// no lock of its own and is independent of the vault's lock.
// Grounded on the teacher's internal/storage/redis.go client
// construction, generalized from a bare *redis.Client into a typed
// get/set/invalidate cache keyed by query kind + position.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache wraps a redis client with a key scheme of one entry per
// (operation, path, position) tuple; InvalidatePath drops every entry
// of one path. cmd/server constructs it when caching is enabled, and no
// request handler reads from or writes to it.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a Cache against addr/db, exactly as the teacher's
// NewRedisClient does (client construction + startup Ping), but without
// the teacher's panic-on-unreachable: a query cache is a best-effort
// accelerator, not a required collaborator, so callers decide whether a
// dead cache is fatal.
func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: unreachable at %s: %w", addr, err)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Key builds the cache key for one (operation, path, line, character)
// query — e.g. "hover:notes/a.md:3:12".
func Key(operation, path string, line, character int) string {
	return fmt.Sprintf("%s:%s:%d:%d", operation, path, line, character)
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key with the cache's configured TTL.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// InvalidatePath drops every cached entry for path, so that no query
// result cached before the file changed is served afterward.
func (c *Cache) InvalidatePath(ctx context.Context, path string) error {
	pattern := "*:" + path + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache invalidate scan %q: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate del: %w", err)
	}
	return nil
}

// CorrelationID generates a fresh id for tagging an in-flight cache
// population with the request that triggered it — useful when a cache
// miss kicks off async recomputation and a later request needs to tell
// whether it's looking at its own miss or someone else's.
func CorrelationID() string {
	return uuid.NewString()
}

// Close releases the underlying redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
