package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/ellavondegurechaff/healthquest/backend"
	"github.com/ellavondegurechaff/healthquest/healthquest"
	"github.com/ellavondegurechaff/healthquest/healthquest/config"
	"github.com/ellavondegurechaff/healthquest/healthquest/logger"
	"github.com/spf13/cobra"
)

const startupTimeout = 2 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API with background sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger.LogSystem("Starting HealthQuest",
			slog.String("version", version),
			slog.String("commit", commit))

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		app, err := healthquest.NewApp(startCtx, *cfg, version, commit)
		cancel()
		if err != nil {
			return err
		}

		app.Start()
		server := backend.NewServer(backend.NewWebApp(app), cfg.Web, app.Processes)

		listenErr := make(chan error, 1)
		go func() {
			logger.LogSystem("API listening", slog.String("address", cfg.Web.Addr()))
			listenErr <- server.Listen(cfg.Web.Addr())
		}()

		select {
		case <-ctx.Done():
		case err = <-listenErr:
			logger.LogError("API server stopped unexpectedly", err)
		}

		logger.LogSystem("Shutting down HealthQuest...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if shutdownErr := server.ShutdownWithContext(shutdownCtx); shutdownErr != nil {
			logger.LogError("Server shutdown error", shutdownErr)
		}
		// flushes queued sync pushes before the stores go away
		app.Close(shutdownCtx)

		logger.LogSystem("Shutdown complete")
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
