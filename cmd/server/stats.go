package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd prints the statistics snapshot for today.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print review statistics as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.cleanup()

		snapshot, err := app.reviewService.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to compute statistics: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	},
}

// maintenanceCmd runs every maintenance job once.
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run the maintenance jobs now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.cleanup()

		return app.maintenance.RunNow(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(maintenanceCmd)
}
