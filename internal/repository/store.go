package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is a string key-value persistence backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

// BackendType selects the Store implementation.
type BackendType string

const (
	BackendPostgres BackendType = "postgres"
	BackendRedis    BackendType = "redis"
	BackendFile     BackendType = "file"
	BackendMemory   BackendType = "memory"
)
