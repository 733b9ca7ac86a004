package store

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config selects and configures the storage backend.
type Config struct {
	Backend  string `yaml:"backend" env:"FLASHMASTER_STORAGE_BACKEND" env-default:"sqlite"`
	Path     string `yaml:"path" env:"FLASHMASTER_DB"`
	RedisURL string `yaml:"redis_url" env:"FLASHMASTER_REDIS_URL" env-default:"redis://localhost:6379/0"`

	// FlushTimeout bounds how long shutdown waits for the last pending
	// state write.
	FlushTimeout time.Duration `yaml:"flush_timeout" env:"FLASHMASTER_FLUSH_TIMEOUT" env-default:"5s"`
}

// Validate checks the storage configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendSQLite, BackendRedis, BackendMemory)),
		validation.Field(&c.RedisURL, validation.When(c.Backend == BackendRedis, validation.Required)),
		validation.Field(&c.FlushTimeout, validation.Min(time.Duration(0))),
	)
}

// OpenBackend opens the backend selected by cfg. For sqlite an empty Path
// resolves to DefaultDBPath.
func OpenBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		path := cfg.Path
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			path = p
		} else if err := EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		return Open(path)
	case BackendRedis:
		return NewRedis(ctx, cfg.RedisURL)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
