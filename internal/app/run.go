package app

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trigger-engine/internal/common/logging"
	"trigger-engine/internal/config"
)

// Run is the main entry point for the application.
func Run() error {
	_ = godotenv.Load()

	runtime.GOMAXPROCS(runtime.NumCPU())

	logging.InitGlobalLogger()
	defer logging.MustSync()

	logging.Info("Starting trigger engine",
		logging.Int("cpus", runtime.NumCPU()),
	)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Error("Configuration validation failed", err)
		return err
	}

	app, err := New(cfg)
	if err != nil {
		logging.Error("Failed to initialize application", err)
		return err
	}

	if err := app.Start(); err != nil {
		logging.Error("Failed to start scheduler", err)
		return err
	}

	srv := app.NewServer()
	if err := srv.Start(); err != nil {
		logging.Error("Server failed to start", err)
		return err
	}
	logging.Info("Admin API listening", logging.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		logging.Warn("Error during app shutdown", logging.Err(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", err)
		return err
	}

	logging.Info("Server exited")
	return nil
}
