package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/editor"
	"github.com/zeusync/timeline/internal/prefs"
	"github.com/zeusync/timeline/internal/server"
)

// Server configures the preview feed.
type Server struct {
	ListenAddr      string   `yaml:"listen_addr" toml:"listen_addr"`
	Token           string   `yaml:"token" toml:"token"`
	ReadTimeout     Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	RateLimit       int      `yaml:"rate_limit" toml:"rate_limit"`
	RateWindow      Duration `yaml:"rate_window" toml:"rate_window"`
	MaxClients      int      `yaml:"max_clients" toml:"max_clients"`
	SendBuffer      int      `yaml:"send_buffer" toml:"send_buffer"`
	PingInterval    Duration `yaml:"ping_interval" toml:"ping_interval"`
	WriteWait       Duration `yaml:"write_wait" toml:"write_wait"`
	MaxMessageSize  int64    `yaml:"max_message_size" toml:"max_message_size"`
}

// Redis configures the redis preference backend.
type Redis struct {
	Addr     string   `yaml:"addr" toml:"addr"`
	Password string   `yaml:"password" toml:"password"`
	DB       int      `yaml:"db" toml:"db"`
	Prefix   string   `yaml:"prefix" toml:"prefix"`
	Timeout  Duration `yaml:"timeout" toml:"timeout"`
}

// Prefs selects and configures the preference store.
type Prefs struct {
	Backend     string `yaml:"backend" toml:"backend"`
	Path        string `yaml:"path" toml:"path"`
	RecentLimit int    `yaml:"recent_limit" toml:"recent_limit"`
	Redis       Redis  `yaml:"redis" toml:"redis"`
}

// Editor configures composition behavior.
type Editor struct {
	HistoryDepth    int     `yaml:"history_depth" toml:"history_depth"`
	MinDuration     float64 `yaml:"min_duration" toml:"min_duration"`
	DefaultDuration float64 `yaml:"default_duration" toml:"default_duration"`
	Layout          string  `yaml:"layout" toml:"layout"`
	// TrackPolicy is empty, "reject" or "bump".
	TrackPolicy string `yaml:"track_policy" toml:"track_policy"`
	// Templates is an extra catalog file merged over the built-in templates.
	Templates string `yaml:"templates" toml:"templates"`
}

// Config is the complete service configuration.
type Config struct {
	Log    log.Config `yaml:"log" toml:"log"`
	Server Server     `yaml:"server" toml:"server"`
	Prefs  Prefs      `yaml:"prefs" toml:"prefs"`
	Editor Editor     `yaml:"editor" toml:"editor"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	srv := server.DefaultServerConfig()
	pr := prefs.DefaultConfig()
	ed := editor.DefaultConfig()

	return Config{
		Log: log.Config{Level: "info", Encoding: "json"},
		Server: Server{
			ListenAddr:      srv.ListenAddr,
			Token:           srv.Token,
			ReadTimeout:     Duration(srv.ReadTimeout),
			WriteTimeout:    Duration(srv.WriteTimeout),
			ShutdownTimeout: Duration(srv.ShutdownTimeout),
			RateLimit:       srv.RateLimit,
			RateWindow:      Duration(srv.RateWindow),
			MaxClients:      srv.MaxClients,
			SendBuffer:      srv.SendBuffer,
			PingInterval:    Duration(srv.PingInterval),
			WriteWait:       Duration(srv.WriteWait),
			MaxMessageSize:  srv.MaxMessageSize,
		},
		Prefs: Prefs{
			Backend:     pr.Backend,
			Path:        pr.Path,
			RecentLimit: pr.RecentLimit,
			Redis: Redis{
				Addr:     pr.Redis.Addr,
				Password: pr.Redis.Password,
				DB:       pr.Redis.DB,
				Prefix:   pr.Redis.Prefix,
				Timeout:  Duration(pr.Redis.Timeout),
			},
		},
		Editor: Editor{
			HistoryDepth:    ed.HistoryDepth,
			MinDuration:     ed.MinDuration,
			DefaultDuration: ed.DefaultDuration,
			Layout:          ed.Layout.String(),
			TrackPolicy:     ed.TrackPolicy,
			Templates:       ed.TemplatesPath,
		},
	}
}

// Load reads path over Default and validates the result. An empty path
// returns the defaults. Environment overrides are applied separately by
// ApplyEnv.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = DecodeYAML(f, &cfg)
	case ".toml":
		err = DecodeTOML(f, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// DecodeYAML overlays a YAML document onto cfg.
func DecodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// DecodeTOML overlays a TOML document onto cfg.
func DecodeTOML(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: log.encoding must be json or console, got %q", ErrInvalidConfig, c.Log.Encoding)
	}

	if err := c.ServerConfig().Validate(); err != nil {
		return fmt.Errorf("%w: server: %v", ErrInvalidConfig, err)
	}

	switch c.Prefs.Backend {
	case prefs.BackendMemory, prefs.BackendRedis:
	case prefs.BackendSQLite:
		if c.Prefs.Path == "" {
			return fmt.Errorf("%w: prefs.path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: prefs.backend %q", ErrInvalidConfig, c.Prefs.Backend)
	}
	if c.Prefs.RecentLimit <= 0 {
		return fmt.Errorf("%w: prefs.recent_limit must be positive", ErrInvalidConfig)
	}

	if c.Editor.HistoryDepth <= 0 {
		return fmt.Errorf("%w: editor.history_depth must be positive", ErrInvalidConfig)
	}
	if c.Editor.MinDuration <= 0 {
		return fmt.Errorf("%w: editor.min_duration must be positive", ErrInvalidConfig)
	}
	if c.Editor.DefaultDuration < c.Editor.MinDuration {
		return fmt.Errorf("%w: editor.default_duration below min_duration", ErrInvalidConfig)
	}
	if _, ok := layout.Parse(c.Editor.Layout); !ok {
		return fmt.Errorf("%w: editor.layout %q", ErrInvalidConfig, c.Editor.Layout)
	}
	switch c.Editor.TrackPolicy {
	case "", "reject", "bump":
	default:
		return fmt.Errorf("%w: editor.track_policy %q", ErrInvalidConfig, c.Editor.TrackPolicy)
	}
	return nil
}

func (c Config) LogConfig() log.Config { return c.Log }

func (c Config) ServerConfig() server.Config {
	s := c.Server
	return server.Config{
		ListenAddr:      s.ListenAddr,
		Token:           s.Token,
		ReadTimeout:     s.ReadTimeout.Std(),
		WriteTimeout:    s.WriteTimeout.Std(),
		ShutdownTimeout: s.ShutdownTimeout.Std(),
		RateLimit:       s.RateLimit,
		RateWindow:      s.RateWindow.Std(),
		MaxClients:      s.MaxClients,
		SendBuffer:      s.SendBuffer,
		PingInterval:    s.PingInterval.Std(),
		WriteWait:       s.WriteWait.Std(),
		MaxMessageSize:  s.MaxMessageSize,
	}
}

func (c Config) PrefsConfig() prefs.Config {
	p := c.Prefs
	return prefs.Config{
		Backend:     p.Backend,
		Path:        p.Path,
		RecentLimit: p.RecentLimit,
		Redis: prefs.RedisConfig{
			Addr:     p.Redis.Addr,
			Password: p.Redis.Password,
			DB:       p.Redis.DB,
			Prefix:   p.Redis.Prefix,
			Timeout:  p.Redis.Timeout.Std(),
		},
	}
}

// EditorConfig converts the editor section. An unparseable layout falls back
// to auto; Validate reports it.
func (c Config) EditorConfig() editor.Config {
	e := c.Editor
	l, ok := layout.Parse(e.Layout)
	if !ok {
		l = layout.Auto
	}
	return editor.Config{
		HistoryDepth:    e.HistoryDepth,
		MinDuration:     e.MinDuration,
		DefaultDuration: e.DefaultDuration,
		Layout:          l,
		TrackPolicy:     e.TrackPolicy,
		TemplatesPath:   e.Templates,
		RecentLimit:     c.Prefs.RecentLimit,
	}
}
