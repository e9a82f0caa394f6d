// Package main provides the MCP entry point for the wellness advisor.
// It serves over stdio and keeps alert feedback in a local SQLite file.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wellness-advisor-server/internal/config"
	"github.com/wellness-advisor-server/internal/logging"
	"github.com/wellness-advisor-server/internal/mcp"
)

func main() {
	cfg := config.LoadLiteConfig()

	// stdout carries the protocol, so logs go to stderr
	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, "stderr")
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	server, err := mcp.NewServer(cfg, mcp.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("MCP server stopped with error")
		return
	}

	logger.Info("Wellness advisor MCP server stopped")
}
