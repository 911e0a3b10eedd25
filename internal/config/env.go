package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TIMELINE_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays TIMELINE_* variables onto c and validates the result.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_ENCODING":   &c.Log.Encoding,
		"LISTEN_ADDR":    &c.Server.ListenAddr,
		"SERVER_TOKEN":   &c.Server.Token,
		"PREFS_BACKEND":  &c.Prefs.Backend,
		"PREFS_PATH":     &c.Prefs.Path,
		"REDIS_ADDR":     &c.Prefs.Redis.Addr,
		"REDIS_PASSWORD": &c.Prefs.Redis.Password,
		"LAYOUT":         &c.Editor.Layout,
		"TRACK_POLICY":   &c.Editor.TrackPolicy,
		"TEMPLATES":      &c.Editor.Templates,
	}
	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":      &c.Prefs.Redis.DB,
		"HISTORY_DEPTH": &c.Editor.HistoryDepth,
		"RECENT_LIMIT":  &c.Prefs.RecentLimit,
		"MAX_CLIENTS":   &c.Server.MaxClients,
	}
	for name, dst := range ints {
		v, ok := get(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, EnvPrefix, name, v)
		}
		*dst = n
	}

	return c.Validate()
}

// LoadAll is the full startup sequence: .env, file, then environment.
func LoadAll(path string) (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	if path == "" {
		if v, ok := os.LookupEnv(EnvPrefix + "CONFIG"); ok {
			path = v
		}
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
