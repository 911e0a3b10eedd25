package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/timeline/internal/config"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "timeline:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadAll(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := injector.InitializeApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.Server.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	app.Logger.Info("shutting down", log.String("reason", context.Cause(ctx).Error()))

	// The signal context is already cancelled; give shutdown its own.
	if err := app.Server.Stop(context.Background()); err != nil {
		app.Logger.Error("stop preview feed", log.Error(err))
		return err
	}
	return nil
}
