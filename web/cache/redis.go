// Package cache holds the Redis connection, the Redis-backed session store
// and the counters used for request throttling.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/leadmap/leadmap/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "leadmap:"

// NewRedisClient connects to the Redis server at addr and verifies it answers.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	logger.Info("Connected to Redis at", addr)
	return client, nil
}
