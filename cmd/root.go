package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ellavondegurechaff/healthquest/healthquest"
	"github.com/ellavondegurechaff/healthquest/healthquest/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string

	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "healthquest",
	Short:         "HealthQuest progression engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// loadConfig reads the config file and installs the configured logger.
func loadConfig() (*healthquest.Config, error) {
	cfg, err := healthquest.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.AddSource)
	return cfg, nil
}

func Execute(v, c string) {
	version, commit = v, c
	rootCmd.Version = v

	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.LogError("Command failed", err)
		os.Exit(1)
	}
}
