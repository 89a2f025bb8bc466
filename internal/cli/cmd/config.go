package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration file",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}

		theme := app.Theme
		cfg := app.Config.Get()

		fmt.Println(theme.Title.Render("Configuration"))
		fmt.Printf("%s %s\n", theme.Subtle.Render("file"), theme.Normal.Render(app.Config.GetConfigFile()))
		fmt.Printf("%s %s\n", theme.Subtle.Render("database"), theme.Normal.Render(cfg.Database.Path))
		if cfg.Engine.Preferred != "" {
			fmt.Printf("%s %s\n", theme.Subtle.Render("preferred engine"), theme.Highlight.Render(cfg.Engine.Preferred))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
