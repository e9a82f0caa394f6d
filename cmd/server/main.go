package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wellness-advisor-server/internal/api"
	"github.com/wellness-advisor-server/internal/config"
	"github.com/wellness-advisor-server/internal/feedback"
	"github.com/wellness-advisor-server/internal/logging"
	"github.com/wellness-advisor-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Feedback is optional: assessments keep working without a store.
	store, err := feedback.Open(ctx, cfg, configManager.GetDatabaseURL(), logger)
	if err != nil {
		logger.WithError(err).Warn("Feedback store unavailable, feedback endpoints disabled")
		store = nil
	} else {
		defer store.Close()
	}

	advisor := service.NewAdvisorService(logger)
	server, err := api.NewServer(configManager, advisor, store, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	logger.WithField("addr", cfg.Server.Host).WithField("port", cfg.Server.Port).Info("Starting wellness advisor server")
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}
