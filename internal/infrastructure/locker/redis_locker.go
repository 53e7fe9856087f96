// Package locker guards per-store sync runs with a Redis lock so at most one
// sync per store is in flight across the whole deployment.
package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisLocker implements ports.Locker using SET NX with a TTL. The TTL is a
// safety net against crashed holders; normal completion releases explicitly.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisLocker creates a locker. A zero ttl defaults to one hour, long
// enough for a multi-chunk sync with its 60s inter-chunk waits.
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisLocker{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the lock, returning false when someone else holds it.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, 1, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Release frees the lock.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}
