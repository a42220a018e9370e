package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ordersvc/internal/app"
	"ordersvc/internal/config"
	"ordersvc/internal/repositories"
	"ordersvc/internal/services/payment"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	config.SetupLogger(os.Stdout, cfg.LogLevel)

	// --- Database ---
	db, err := repositories.OpenDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Failed to access database handle", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if cfg.StripeSecretKey == "" {
		slog.Warn("STRIPE_SECRET_KEY is not set; STRIPE orders will fail settlement")
	}

	fiberApp, _, err := app.NewApp(cfg, db, payment.NewStripeProvider(cfg.StripeSecretKey))
	if err != nil {
		slog.Error("Failed to create app", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Start HTTP Server ---
	slog.Info("Starting server", slog.String("port", cfg.AppPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			slog.Error("Server failed to start", slog.Any("error", err))
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	slog.Info("Shutting down server...")

	if err := fiberApp.Shutdown(); err != nil {
		slog.Error("Error during Fiber shutdown", slog.Any("error", err))
	}
	slog.Info("Server gracefully stopped")
}
