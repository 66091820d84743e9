// Package cache is a small key/value store with optional expiry, used by
// check programs to keep state between runs (session tokens, previous
// counter readings and the like).
//
// Expiry is an absolute Unix timestamp in seconds; 0 means the key never
// expires. Reads treat a key as absent once its timestamp lies in the past.
// Stores log failures and report them as false: a false result does not tell
// a missing key apart from a broken store.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/xuenqlve/checkkit/data_source/redis"
	"github.com/xuenqlve/checkkit/errors"
)

type Store interface {
	// Set stores value under key, replacing any previous value and expiry.
	Set(ctx context.Context, key, value string, expire int64) bool
	// Get returns the value of key, or false if it is missing or expired.
	Get(ctx context.Context, key string) (string, bool)
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	DefaultFilename = "checkkit-cache.db"
)

var ErrStore = errors.NewErrorMessage(errors.ErrCodeStore, "cache store")

type Config struct {
	Backend string `toml:"backend" json:"backend" yaml:"backend"`
	// Path is the directory of the SQLite file, the temp dir by default.
	Path     string        `toml:"path" json:"path" yaml:"path"`
	Filename string        `toml:"filename" json:"filename" yaml:"filename"`
	Redis    *redis.Config `toml:"redis" json:"redis" yaml:"redis"`
	// CleanupInterval only applies to the memory backend.
	CleanupInterval time.Duration `toml:"cleanup-interval" json:"cleanup-interval" yaml:"cleanup-interval"`
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	switch c.Backend {
	case BackendSQLite:
		if c.Path == "" {
			c.Path = os.TempDir()
		}
		if c.Filename == "" {
			c.Filename = DefaultFilename
		}
	case BackendRedis:
		if c.Redis == nil {
			return errors.Annotate(ErrStore, "redis backend needs a redis section")
		}
		return c.Redis.ValidateAndSetDefault()
	case BackendMemory:
	default:
		return errors.Annotatef(ErrStore, "unknown backend %q", c.Backend)
	}
	return nil
}

func (c *Config) File() string {
	return filepath.Join(c.Path, c.Filename)
}

// Open 按配置创建对应的存储
func Open(ctx context.Context, cfg *Config) (Store, error) {
	if err := cfg.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}
	switch cfg.Backend {
	case BackendRedis:
		client, err := cfg.Redis.Connect(ctx)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return NewRedisStore(client), nil
	case BackendMemory:
		return NewMemoryStore(cfg.CleanupInterval), nil
	}
	return OpenSQLite(ctx, cfg.File())
}
