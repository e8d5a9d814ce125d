package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "token_count:"

// RedisStore manages Redis connection for token cache
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// Test connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: rdb,
	}, nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// GetTokenCount retrieves cached token count for key
func (r *RedisStore) GetTokenCount(ctx context.Context, key string) (int, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var count int
	if err := json.Unmarshal([]byte(val), &count); err != nil {
		return 0, false, err
	}

	return count, true, nil
}

// SetTokenCount caches token count for key
func (r *RedisStore) SetTokenCount(ctx context.Context, key string, count int, ttl time.Duration) error {
	data, err := json.Marshal(count)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, keyPrefix+key, data, ttl).Err()
}
