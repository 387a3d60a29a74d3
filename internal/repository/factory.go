package repository

import (
	"context"
	"fmt"
	"log/slog"
)

// StoreConfig holds configuration for creating a Store.
type StoreConfig struct {
	Backend  BackendType // Type of backend to create
	FilePath string      // Path of the JSON document (file backend)

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	Logger *slog.Logger
}

// NewStore creates a Store based on the provided configuration. The returned
// function releases the backend's connections and is never nil.
//
// Supported backends:
// - "postgres": kv_store table, created on startup
// - "redis": keys under RedisPrefix
// - "file": one JSON document on disk
// - "memory": process memory, lost on restart
func NewStore(ctx context.Context, config StoreConfig) (Store, func(), error) {
	noop := func() {}

	switch config.Backend {
	case BackendPostgres:
		pool, err := NewDatabase(ctx, config.PostgresHost, config.PostgresPort,
			config.PostgresUser, config.PostgresPassword, config.PostgresName)
		if err != nil {
			return nil, noop, err
		}
		store := NewPostgresStore(pool, config.Logger)
		if err = store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil
	case BackendRedis:
		client := NewRedisClient(config.RedisAddr, config.RedisUsername, config.RedisPassword, config.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("failed to ping redis: %w", err)
		}
		return NewRedisStore(client, config.RedisPrefix, config.Logger), func() { _ = client.Close() }, nil
	case BackendFile:
		store, err := NewFileStore(config.FilePath, config.Logger)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported storage backend: %s", config.Backend)
	}
}
