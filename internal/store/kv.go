// Package store persists the invoice history and the product catalog.
//
// Each collection is a JSON array stored under a fixed key in a string keyed
// store. Every mutation rewrites the whole array; there are no partial writes and
// no locking. With several writers the last write wins.
package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Storage keys of the two collections
const (
	InvoicesKey = "invoice_app_saved_bills"
	ProductsKey = "invoice_app_products"
)

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// KeyValue is a durable string keyed store. Set must either replace the value
// completely or leave the previous value in place.
type KeyValue interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases the backend's resources.
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Backend        string
	DataDir        string
	SQLitePath     string
	RedisURL       string
	RedisKeyPrefix string
}

// Open creates the configured backend
func Open(ctx context.Context, cfg Config) (KeyValue, error) {
	const op = "Open"

	switch cfg.Backend {
	case BackendFile, "":
		return NewFileKV(filepath.Join(cfg.DataDir, "data"))
	case BackendSQLite:
		return NewSQLiteKV(cfg.SQLitePath)
	case BackendRedis:
		return NewRedisKV(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownBackend, cfg.Backend)
	}
}
