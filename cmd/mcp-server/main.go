// Package main serves the symptom matcher as MCP tools over stdio.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/healthassist-server/internal/config"
	"github.com/healthassist-server/internal/logging"
	"github.com/healthassist-server/internal/mcp"
)

func main() {
	// stdout carries the protocol, so logs always go to stderr.
	logCfg := config.LoadLiteConfig().Logging()
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if err := mcp.NewServer(logger).Start(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("MCP server failed")
	}
}
