// Package store is the key-value persistence for application records.
package store

import (
	"context"
	"errors"
	"fmt"

	"admissions/internal/common/config"
	"admissions/internal/common/database"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

// Store is a get/set-by-key store. A single Set is atomic per key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// ApplicationKey is the storage key of a student's application record.
func ApplicationKey(studentID string) string {
	return "application_" + studentID
}

// New opens the store selected by cfg.Store.Driver.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "redis":
		return NewRedisStore(database.NewRedis(cfg.Database.Redis).Client), nil
	case "postgres":
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pg.DB, cfg.Store.Table)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
