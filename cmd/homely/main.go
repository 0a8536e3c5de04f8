package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "homely",
	Short: "Homely - personal dashboard spaces and widgets",
	Long:  `Homely manages dashboard spaces and the widgets placed on them, against a Homely server.`,
	Example: `  # Sign in and look around
  homely login
  homely status
  homely spaces list

  # Place a text widget on your default space
  homely widgets add --type text --content '{"text":"hello"}'

  # Run your own server
  homely serve`,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "account", Title: "Account Commands:"},
		&cobra.Group{ID: "spaces", Title: "Space Commands:"},
		&cobra.Group{ID: "widgets", Title: "Widget Commands:"},
		&cobra.Group{ID: "admin", Title: "Admin Commands:"},
	)

	loginCmd.GroupID = "account"
	logoutCmd.GroupID = "account"
	statusCmd.GroupID = "account"

	spacesCmd.GroupID = "spaces"
	widgetsCmd.GroupID = "widgets"
	weatherCmd.GroupID = "widgets"
	fontsCmd.GroupID = "widgets"

	serveCmd.GroupID = "admin"

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(spacesCmd)
	rootCmd.AddCommand(widgetsCmd)
	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(fontsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
