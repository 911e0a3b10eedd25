package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/timeline/internal/core/composition"
	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/core/templates"
)

// Source is the read side of a composition served to renderers.
type Source interface {
	VersionedState() (composition.State, uint64)
	PaintOrder(t float64) []composition.Paint
}

// Catalog lists the templates a renderer may preview.
type Catalog interface {
	List(category string) []templates.Template
}

// Subscriber delivers composition changes to websocket clients.
type Subscriber interface {
	SubscribeAll(handler events.Handler) (events.Subscription, error)
}

// Server is the read-only preview feed consumed by the external renderer.
type Server struct {
	config Config
	logger log.Log

	source     Source
	catalog    Catalog
	subscriber Subscriber

	httpServer *http.Server
	hub        *hub
	limiter    *rateLimiter
	handler    http.Handler

	running atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
	mu      sync.Mutex
	addr    net.Addr
}

// Config holds preview feed configuration
type Config struct {
	ListenAddr string
	// Token, when set, is required as a bearer token or ?token= parameter.
	Token string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// RateLimit caps requests per RateWindow per remote host. Zero disables.
	RateLimit  int
	RateWindow time.Duration

	// Websocket settings
	MaxClients     int
	SendBuffer     int
	PingInterval   time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// DefaultServerConfig returns default preview feed configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RateLimit:       0,
		RateWindow:      time.Second,
		MaxClients:      64,
		SendBuffer:      32,
		PingInterval:    30 * time.Second,
		WriteWait:       5 * time.Second,
		MaxMessageSize:  4 * 1024,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("%w: listen address is empty", ErrInvalidConfig)
	case c.MaxClients <= 0:
		return fmt.Errorf("%w: max clients must be positive", ErrInvalidConfig)
	case c.SendBuffer <= 0:
		return fmt.Errorf("%w: send buffer must be positive", ErrInvalidConfig)
	case c.PingInterval <= 0 || c.WriteWait <= 0:
		return fmt.Errorf("%w: websocket timings must be positive", ErrInvalidConfig)
	case c.RateLimit < 0:
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidConfig)
	case c.RateLimit > 0 && c.RateWindow <= 0:
		return fmt.Errorf("%w: rate window must be positive", ErrInvalidConfig)
	}
	return nil
}

// NewServer creates a preview feed over source. Catalog and subscriber may be
// nil, which disables /templates and live updates respectively.
func NewServer(config Config, source Source, catalog Catalog, subscriber Subscriber, logger log.Log) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}

	s := &Server{
		config:     config,
		logger:     logger.With(log.String("component", "server")),
		source:     source,
		catalog:    catalog,
		subscriber: subscriber,
		done:       make(chan struct{}),
	}
	s.hub = newHub(s)
	if config.RateLimit > 0 {
		s.limiter = newRateLimiter(config.RateLimit, config.RateWindow, s.logger)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving every endpoint.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	if err := s.hub.start(); err != nil {
		s.running.Store(false)
		return err
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		s.hub.stop()
		s.running.Store(false)
		return fmt.Errorf("%w: %v", ErrListenerFailed, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr()
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("preview feed stopped", log.Error(err))
		}
	}()

	if s.limiter != nil {
		go s.sweepLimiter()
	}

	s.logger.Info("preview feed listening", log.String("addr", listener.Addr().String()))
	return nil
}

func (s *Server) sweepLimiter() {
	ticker := time.NewTicker(10 * s.config.RateWindow)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.limiter.sweep()
		}
	}
}

// Addr returns the bound address once started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop shuts the HTTP server down and disconnects websocket clients.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return ErrServerNotRunning
	}
	if !s.closed.CompareAndSwap(false, true) {
		return ErrServerClosed
	}

	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	close(s.done)
	s.hub.stop()

	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	err := httpServer.Shutdown(ctx)
	s.running.Store(false)
	s.logger.Info("preview feed stopped")
	return err
}

// Stats is a snapshot of the feed's counters.
type Stats struct {
	Clients   int    `json:"clients"`
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
}

func (s *Server) Stats() Stats {
	return s.hub.stats()
}
