package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymconnect/internal/config"
	"gymconnect/internal/db"
	"gymconnect/internal/logger"
	"gymconnect/internal/server"

	"go.uber.org/zap"
)

// @title GymConnect API
// @version 1.0
// @description Trainer availability, session booking, reviews and gym memberships.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init()
		logger.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.Environment)
	logger.Set(log)
	defer logger.Sync()

	logger.Info("Starting GymConnect", "env", cfg.Environment)

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the package-level logger skips one frame for its wrappers
	srv := server.New(database, cfg, log.WithOptions(zap.AddCallerSkip(-1)))

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
