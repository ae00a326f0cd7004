package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chafiq1992/order-scanner/internal/domain/shared"
)

// RedisScanLock implements shared.ScanLock using Redis SETNX. Suitable
// for deployments running more than one scanner instance.
type RedisScanLock struct {
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

// NewRedisScanLock creates a Redis-backed scan lock
func NewRedisScanLock(cfg RedisConfig) (*RedisScanLock, error) {
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

	return &RedisScanLock{
		client:    client,
		keyPrefix: "scan:lock:",
	}, nil
}

// NewRedisScanLockWithClient creates a lock with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisScanLockWithClient(client *redis.Client, keyPrefix string) *RedisScanLock {
	if keyPrefix == "" {
		keyPrefix = "scan:lock:"
	}
	return &RedisScanLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the lock for key if nobody holds it. Returns false when
// another scan of the same order is in flight.
func (l *RedisScanLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire scan lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock for key
func (l *RedisScanLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release scan lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisScanLock) Close() error {
	return l.client.Close()
}

// Ensure RedisScanLock implements ScanLock
var _ shared.ScanLock = (*RedisScanLock)(nil)
