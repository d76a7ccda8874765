package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pazarhub/backend/internal/domain/syncrun"
)

// RedisLocker implements syncrun.Locker on Redis. Suitable for distributed
// deployments where multiple workers coordinate the single-active-run rule
// over a shared store.
type RedisLocker struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisLocker creates a Redis-backed run locker.
func NewRedisLocker(cfg RedisConfig) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLocker{
		client:    client,
		keyPrefix: "sync:runlock:",
	}, nil
}

// NewRedisLockerWithClient creates a locker sharing an existing client.
func NewRedisLockerWithClient(client *redis.Client, keyPrefix string) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = "sync:runlock:"
	}
	return &RedisLocker{client: client, keyPrefix: keyPrefix}
}

// TryAcquire atomically claims the tuple via SETNX with a TTL. Returns false
// when another run already holds it.
func (l *RedisLocker) TryAcquire(ctx context.Context, key syncrun.Key, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key.String(), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

// Release frees the tuple.
func (l *RedisLocker) Release(ctx context.Context, key syncrun.Key) error {
	if err := l.client.Del(ctx, l.keyPrefix+key.String()).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// Ensure RedisLocker implements syncrun.Locker
var _ syncrun.Locker = (*RedisLocker)(nil)
