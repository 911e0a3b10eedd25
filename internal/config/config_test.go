package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/prefs"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func envMap(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	ed := cfg.EditorConfig()
	assert.Equal(t, 50, ed.HistoryDepth)
	assert.Equal(t, layout.Auto, ed.Layout)
	assert.Equal(t, prefs.BackendMemory, cfg.PrefsConfig().Backend)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "timeline.yaml", `
log:
  level: debug
  encoding: console
server:
  listen_addr: ":9090"
  ping_interval: 15s
prefs:
  backend: redis
  redis:
    addr: "redis:6379"
    timeout: 750ms
editor:
  layout: vertical
  track_policy: bump
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.ServerConfig().ListenAddr)
	assert.Equal(t, 15*time.Second, cfg.ServerConfig().PingInterval)
	// untouched fields keep their defaults
	assert.Equal(t, Default().Server.MaxClients, cfg.Server.MaxClients)

	pc := cfg.PrefsConfig()
	assert.Equal(t, prefs.BackendRedis, pc.Backend)
	assert.Equal(t, 750*time.Millisecond, pc.Redis.Timeout)

	ec := cfg.EditorConfig()
	assert.Equal(t, layout.Vertical, ec.Layout)
	assert.Equal(t, "bump", ec.TrackPolicy)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "timeline.toml", `
[server]
listen_addr = "0.0.0.0:8000"
shutdown_timeout = "2s"

[prefs]
backend = "sqlite"
path = "/tmp/prefs.db"
recent_limit = 5

[editor]
history_depth = 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.ListenAddr)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, prefs.BackendSQLite, cfg.Prefs.Backend)
	assert.Equal(t, 5, cfg.EditorConfig().RecentLimit)
	assert.Equal(t, 10, cfg.Editor.HistoryDepth)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "timeline.ini", "x=1"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.yaml", "editor:\n  layout: widescreen\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeFile(t, "unknown.yaml", "editor:\n  colour: red\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "dur.toml", "[server]\nping_interval = \"soon\"\n"))
	assert.Error(t, err)
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"log level":      func(c *Config) { c.Log.Level = "loud" },
		"log encoding":   func(c *Config) { c.Log.Encoding = "xml" },
		"listen addr":    func(c *Config) { c.Server.ListenAddr = "" },
		"backend":        func(c *Config) { c.Prefs.Backend = "etcd" },
		"sqlite path":    func(c *Config) { c.Prefs.Backend, c.Prefs.Path = prefs.BackendSQLite, "" },
		"recent limit":   func(c *Config) { c.Prefs.RecentLimit = 0 },
		"history depth":  func(c *Config) { c.Editor.HistoryDepth = -1 },
		"min duration":   func(c *Config) { c.Editor.MinDuration = 0 },
		"default dur":    func(c *Config) { c.Editor.DefaultDuration = 0.1 },
		"track policy":   func(c *Config) { c.Editor.TrackPolicy = "shove" },
		"unknown layout": func(c *Config) { c.Editor.Layout = "imax" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"TIMELINE_LOG_LEVEL":     "warn",
		"TIMELINE_LISTEN_ADDR":   ":7000",
		"TIMELINE_PREFS_BACKEND": "redis",
		"TIMELINE_REDIS_ADDR":    "cache:6379",
		"TIMELINE_REDIS_DB":      "3",
		"TIMELINE_HISTORY_DEPTH": "20",
		"TIMELINE_LAYOUT":        "square",
		"TIMELINE_TRACK_POLICY":  "",
		"UNRELATED":              "ignored",
	}))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":7000", cfg.Server.ListenAddr)
	assert.Equal(t, "cache:6379", cfg.Prefs.Redis.Addr)
	assert.Equal(t, 3, cfg.Prefs.Redis.DB)
	assert.Equal(t, 20, cfg.Editor.HistoryDepth)
	assert.Equal(t, layout.Square, cfg.EditorConfig().Layout)
	assert.Equal(t, "", cfg.Editor.TrackPolicy)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{"TIMELINE_HISTORY_DEPTH": "many"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = Default()
	err = cfg.ApplyEnv(envMap(map[string]string{"TIMELINE_PREFS_BACKEND": "mongo"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "TIMELINE_TEST_DOTENV=from-file\nTIMELINE_TEST_DOTENV_KEEP=file\n")
	t.Setenv("TIMELINE_TEST_DOTENV_KEEP", "process")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	t.Cleanup(func() { _ = os.Unsetenv("TIMELINE_TEST_DOTENV") })
	assert.Equal(t, "from-file", os.Getenv("TIMELINE_TEST_DOTENV"))
	assert.Equal(t, "process", os.Getenv("TIMELINE_TEST_DOTENV_KEEP"))
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(out))
}
