package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homely-dev/homely/internal/server"
)

var servePort int

// @title Homely API
// @version 1.0
// @description Personal dashboard spaces and widgets API
// @host localhost:8600
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a Homely server instance",
	Long: `Start the Homely API server.

Examples:
  homely serve                  # Run on the configured port
  homely serve --port 8080      # Override port

Environment variables:
  HOMELY_SERVER_PORT           Server port (default: 8600)
  HOMELY_DATABASE_DRIVER       Database driver: sqlite, postgres
  HOMELY_DATABASE_DSN          Database connection string
  HOMELY_AUTH_JWT_SECRET       JWT signing secret
  HOMELY_AUTH_GOOGLE_CLIENT_ID Google sign-in client ID (optional)`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, server.Config{
		Port:    servePort,
		Version: Version,
	})
}
