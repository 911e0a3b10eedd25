package prefs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zeusync/timeline/internal/core/observability/log"
)

// Store is a key/value preference store. Get reports false for a missing
// key; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Backend string `yaml:"backend" toml:"backend"`
	// Path is the SQLite database file.
	Path        string      `yaml:"path" toml:"path"`
	Redis       RedisConfig `yaml:"redis" toml:"redis"`
	RecentLimit int         `yaml:"recent_limit" toml:"recent_limit"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" toml:"addr"`
	Password string        `yaml:"password" toml:"password"`
	DB       int           `yaml:"db" toml:"db"`
	Prefix   string        `yaml:"prefix" toml:"prefix"`
	Timeout  time.Duration `yaml:"timeout" toml:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Backend:     BackendMemory,
		Path:        "timeline-prefs.db",
		RecentLimit: DefaultRecentLimit,
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Prefix:  "timeline:prefs:",
			Timeout: 3 * time.Second,
		},
	}
}

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config, logger log.Log) (Store, error) {
	if logger == nil {
		logger = log.Nop()
	}
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))

	var (
		store Store
		err   error
	)
	switch backend {
	case "", BackendMemory:
		backend = BackendMemory
		store = NewMemory()
	case BackendSQLite:
		store, err = OpenSQLite(ctx, cfg.Path)
	case BackendRedis:
		store, err = OpenRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		logger.Error("preference store unavailable", log.String("backend", backend), log.Error(err))
		return nil, err
	}

	logger.Info("preference store opened", log.String("backend", backend))
	return store, nil
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
