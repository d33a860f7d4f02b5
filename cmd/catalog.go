package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/healthquest/healthquest"
	"github.com/spf13/cobra"
)

var errCatalogProblems = errors.New("catalog has invalid items")

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "inspect the content catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "load the catalog and report every excluded item",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := healthquest.LoadCatalog(cmd.Context(), *cfg)
		if err != nil {
			return err
		}

		stats := cat.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "quizzes: %d\nstories: %d\nreels: %d\nrewards: %d\nhealth centers: %d\n",
			stats.Quizzes, stats.Stories, stats.Reels, stats.Rewards, stats.HealthCenters)

		if len(cat.Problems) == 0 {
			slog.Info("Catalog is valid")
			return nil
		}
		for _, p := range cat.Problems {
			fmt.Fprintf(out, "excluded: %v\n", p)
		}
		return fmt.Errorf("%w: %d excluded", errCatalogProblems, len(cat.Problems))
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}
