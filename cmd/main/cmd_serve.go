package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hierarchicalmenu/profilefield/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and run repair workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runContainer(func(ctx context.Context, app *container.Container) error {
			return app.Run(ctx)
		})
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run repair workers only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runContainer(func(ctx context.Context, app *container.Container) error {
			return app.RunWorkers(ctx)
		})
	},
}

func runContainer(run func(ctx context.Context, app *container.Container) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting hierarchical menu profile field...")
	app, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := run(ctx, app); err != nil {
		return err
	}

	log.Info("Application finished successfully")
	return nil
}
