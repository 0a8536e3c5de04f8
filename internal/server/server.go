// Package server provides the main server initialization and run logic.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/homely-dev/homely/internal/api"
	"github.com/homely-dev/homely/internal/auth"
	"github.com/homely-dev/homely/internal/config"
	"github.com/homely-dev/homely/internal/db"
	"github.com/homely-dev/homely/internal/logger"
)

// Config holds the server configuration options.
type Config struct {
	Port    int    // Port to run the server on (0 = use config default)
	Version string // Version string to report
}

// Run starts the server with the given configuration and blocks until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from CLI flag if provided
	if cfg.Port != 0 {
		appCfg.Server.Port = cfg.Port
	}

	logger.Init(appCfg.Log.Format, appCfg.Log.Level)
	slog.Info("Starting Homely server", "version", cfg.Version, "mode", appCfg.Server.Mode)

	database, err := db.New(appCfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Database initialized", "driver", appCfg.Database.Driver)

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations completed")

	// Google sign-in conversion is optional; the password flow works without it.
	var google auth.GoogleVerifier
	if appCfg.Auth.GoogleClientID != "" {
		google, err = auth.NewGoogleVerifier(ctx, appCfg.Auth.GoogleIssuer, appCfg.Auth.GoogleClientID)
		if err != nil {
			return fmt.Errorf("failed to initialize Google sign-in: %w", err)
		}
		slog.Info("Google sign-in enabled", "issuer", appCfg.Auth.GoogleIssuer)
	}

	router := api.NewRouter(appCfg, database, google)

	addr := fmt.Sprintf(":%d", appCfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}
