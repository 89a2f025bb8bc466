// Package cmd provides Cobra CLI commands for fickle.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/fickle/internal/cli"
)

var (
	app     *cli.App
	rootCmd = &cobra.Command{
		Use:   "fickle",
		Short: "A browser that never commits to a rendering engine",
		Long: `Fickle - a browser built around swappable rendering backends.

Every tab runs on whichever backend is available and preferred: a bundled
WebKitGTK runtime, the system WebKitGTK, a tagged variant of either, or an
external viewer process as a last resort. Tabs survive backend swaps and
process restarts through persisted navigation snapshots.

Use 'fickle browse' to launch the graphical browser, or explore the
subcommands for CLI-based operations like listing and choosing backends.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// browseCmd is a placeholder for help - actual execution is in main.go
var browseCmd = &cobra.Command{
	Use:   "browse [url]",
	Short: "Launch the graphical browser",
	Long: `Launch the GTK4 graphical browser.

If a URL is provided, open it in a fresh tab after session restore.

Examples:
  fickle browse                  # Open browser, restore previous tabs
  fickle browse example.com      # Open browser with an extra tab`,
	Run: func(_ *cobra.Command, _ []string) {
		// This is handled by main.go before cobra runs
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
