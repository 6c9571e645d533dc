package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"dailydiet/internal/config"
	"dailydiet/internal/logger"
	"dailydiet/internal/server"
)

func main() {
	// Initialize structured logger
	log := logger.New()
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Daily Diet API",
		"port", cfg.Port,
		"env", cfg.Env,
		"timezone", cfg.Location.String(),
		"session_store", cfg.SessionStore,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := server.New(startCtx, cfg)
	cancel()
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	srv := app.HTTPServer()

	go func() {
		slog.Info("Daily Diet API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down Daily Diet API")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if err := app.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}

	slog.Info("Daily Diet API stopped")
}
