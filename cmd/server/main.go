// Package main implements the entry point for the vocabulary trainer. The
// default command serves the HTTP API; subcommands run database migrations,
// print review statistics and trigger the maintenance jobs by hand.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:          "trainer",
	Short:        "Spaced-repetition vocabulary trainer",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
