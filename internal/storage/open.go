package storage

import (
	"context"
	"fmt"
	"strings"
)

type Options struct {
	Driver         string
	Dir            string
	SQLiteDSN      string
	RedisURL       string
	RedisKeyPrefix string
}

// Open builds the backend selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverFile:
		return NewFileBackend(opts.Dir)
	case DriverSQLite:
		return NewSQLiteBackend(opts.SQLiteDSN)
	case DriverRedis:
		return NewRedisBackend(ctx, opts.RedisURL, opts.RedisKeyPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", opts.Driver)
	}
}
