// Package main is the standalone entry point. It needs no external services:
// data lives in SQLite under the data directory and sessions in memory.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/healthassist-server/internal/app"
	"github.com/healthassist-server/internal/config"
	"github.com/healthassist-server/internal/logging"
)

func main() {
	lite := config.LoadLiteConfig()

	logger, err := logging.New(lite.Logging())
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	if err := lite.EnsureDataDir(); err != nil {
		logger.WithError(err).Fatal("Failed to create data directory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	application, err := app.New(ctx, lite.Config(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialise server")
	}
	defer application.Close()

	logger.WithField("data_dir", lite.DataDir).Info("Starting HealthAssist+ (standalone)")

	if err := application.Run(ctx); err != nil {
		logger.WithError(err).Error("Server failed")
		return
	}

	logger.Info("HealthAssist+ (standalone) stopped")
}
