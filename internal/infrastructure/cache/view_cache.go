package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendormart/backend/internal/infrastructure/config"
)

// RedisViewCache stores serialized read models in Redis
type RedisViewCache struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a Redis client from configuration and verifies the
// connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisViewCache creates a Redis-backed view cache. All keys are stored
// under the given prefix.
func NewRedisViewCache(client *redis.Client, prefix string) *RedisViewCache {
	if prefix == "" {
		prefix = "vendormart"
	}
	return &RedisViewCache{client: client, prefix: prefix}
}

func (c *RedisViewCache) key(key string) string {
	return c.prefix + ":" + key
}

// Get retrieves a cached value. A Redis miss is reported through the boolean.
func (c *RedisViewCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// Set stores a value with the given TTL
func (c *RedisViewCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

// Delete removes the given keys
func (c *RedisViewCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, c.key(key))
	}
	return c.client.Del(ctx, prefixed...).Err()
}

// MemoryViewCache is an in-process view cache used when Redis is disabled,
// mainly in development and tests
type MemoryViewCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryViewCache creates an empty in-memory view cache
func NewMemoryViewCache() *MemoryViewCache {
	return &MemoryViewCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves a cached value, treating expired entries as misses
func (c *MemoryViewCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

// Set stores a value with the given TTL. A non-positive TTL stores the entry
// without expiry.
func (c *MemoryViewCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes the given keys
func (c *MemoryViewCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil
}
