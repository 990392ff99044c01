package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Counter counts events per key inside a fixed window that starts with the
// first event.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// MemoryCounter keeps counters in process memory. Expired windows are
// dropped by Purge.
type MemoryCounter struct {
	items *gocache.Cache
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{items: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	for {
		// Add fails when the window is already open.
		_ = m.items.Add(key, int64(0), window)
		n, err := m.items.IncrementInt64(key, 1)
		if err == nil {
			return n, nil
		}
		// the window expired between Add and Increment
		if _, found := m.items.Get(key); found {
			return 0, err
		}
	}
}

// Purge removes counters whose window has closed.
func (m *MemoryCounter) Purge() {
	m.items.DeleteExpired()
}

// Len returns the number of stored counters, expired ones included.
func (m *MemoryCounter) Len() int {
	return m.items.ItemCount()
}

// RedisCounter keeps counters in Redis so that several server processes
// share them.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = keyPrefix + "counter:" + key
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}
