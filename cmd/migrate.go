package cmd

import (
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/healthquest/healthquest"
	"github.com/spf13/cobra"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "create the database schema and seed rewards from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		start := time.Now()

		db, err := healthquest.OpenDB(ctx, *cfg)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			return err
		}
		defer db.Close()

		cat, err := healthquest.LoadCatalog(ctx, *cfg)
		if err != nil {
			slog.Error("Failed to load catalog", "error", err)
			return err
		}

		if err := db.InitializeRewardData(ctx, cat.Rewards); err != nil {
			slog.Error("Reward seeding failed", "error", err)
			return err
		}

		slog.Info("Migration completed successfully!",
			slog.String("type", "db"),
			slog.Int("rewards", len(cat.Rewards)),
			slog.Duration("took", time.Since(start)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCMD)
}
