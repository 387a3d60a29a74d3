package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis.Client used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// NewRedisClient builds a go-redis client for the given address.
func NewRedisClient(addr, username, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
}

// RedisStore keeps key-value pairs in Redis under a common prefix.
type RedisStore struct {
	client RedisClient
	prefix string
	log    *slog.Logger
}

// NewRedisStore creates a Redis-backed Store. Keys are stored as prefix+key.
func NewRedisStore(client RedisClient, prefix string, log *slog.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, log: log}
}

// Get returns the value stored under key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %q from redis: %w", key, err)
	}

	return value, nil
}

// Set stores value under key without expiration.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q to redis: %w", key, err)
	}

	s.log.DebugContext(ctx, "Value written to redis", "key", s.prefix+key)

	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
