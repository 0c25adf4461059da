package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/database"
)

// migrateCmd runs goose commands against the configured database.
var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|version|reset]",
	Short:     "Manage the database schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateVersion, database.MigrateReset},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := database.MigrateUp
		if len(args) == 1 {
			command = args[0]
		}

		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.cleanup()

		if err := database.Migrate(cmd.Context(), app.db, command, app.logger); err != nil {
			return fmt.Errorf("migrate %s: %w", command, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
