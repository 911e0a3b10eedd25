package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/timeline/internal/config"
	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/editor"
	"github.com/zeusync/timeline/internal/prefs"
	"github.com/zeusync/timeline/internal/server"
)

// App is the fully wired service.
type App struct {
	Config  config.Config
	Logger  log.Log
	Session *editor.Session
	Server  *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvidePrefs,
	ProvideBus,
	ProvideSession,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) (log.Log, func(), error) {
	logger, err := log.NewWithConfig(cfg.LogConfig())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvidePrefs(ctx context.Context, cfg config.Config, logger log.Log) (prefs.Store, func(), error) {
	store, err := prefs.Open(ctx, cfg.PrefsConfig(), logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close preference store", log.Error(err))
		}
	}, nil
}

func ProvideBus() events.Bus {
	return events.New()
}

func ProvideSession(cfg config.Config, store prefs.Store, bus events.Bus, logger log.Log) (*editor.Session, error) {
	return editor.NewSession(cfg.EditorConfig(), store, bus, logger)
}

func ProvideServer(cfg config.Config, session *editor.Session, logger log.Log) (*server.Server, error) {
	return server.NewServer(cfg.ServerConfig(), session.Composition(), session.Catalog(), session.Bus(), logger)
}
