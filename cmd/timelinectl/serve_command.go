package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/core/timing"
	"github.com/zeusync/timeline/internal/injector"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		listen        string
		project       string
		videoDuration float64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.ListenAddr = listen
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, cleanup, err := injector.InitializeApp(runCtx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if project != "" {
				f, err := os.Open(project)
				if err != nil {
					return err
				}
				dropped, err := app.Session.LoadProject(f, timing.Playhead{Duration: videoDuration})
				_ = f.Close()
				if err != nil {
					return err
				}
				app.Logger.Info("project loaded", log.String("path", project), log.Int("dropped", dropped))
			}

			if err := app.Server.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			return app.Server.Stop(context.Background())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Override the listen address")
	cmd.Flags().StringVar(&project, "project", "", "Composition JSON file to serve")
	cmd.Flags().Float64Var(&videoDuration, "video-duration", 0, "Video duration used when loading --project")
	return cmd
}
