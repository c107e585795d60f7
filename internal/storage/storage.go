package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing was ever stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Backend persists opaque blobs under string keys.
// Put replaces the whole value stored under the key.
// Implementations must be safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)
