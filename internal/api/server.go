// Package api serves the advisor over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/wellness-advisor-server/internal/domain"
	"github.com/wellness-advisor-server/internal/feedback"
	"github.com/wellness-advisor-server/internal/middleware"
	"github.com/wellness-advisor-server/internal/service"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	advisor       *service.AdvisorService
	feedback      feedback.Store
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. store may be nil, in which case the
// feedback routes answer 503.
func NewServer(configManager domain.ConfigManager, advisor *service.AdvisorService, store feedback.Store, logger *logrus.Logger) (*Server, error) {
	cfg := configManager.GetConfig()

	if logger == nil {
		logger = logrus.New()
	}
	if advisor == nil {
		advisor = service.NewAdvisorService(logger)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.RequestMetrics())
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
		if err != nil {
			return nil, fmt.Errorf("creating rate limiter: %w", err)
		}
		router.Use(limiter.Middleware())
	}

	s := &Server{
		configManager: configManager,
		advisor:       advisor,
		feedback:      store,
		logger:        logger,
		router:        router,
	}
	s.setupRoutes()

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/rules", s.handleListRules)
		v1.POST("/assessments", s.handleAnalyze)
		v1.GET("/risk", s.handleRiskTier)

		fb := v1.Group("/feedback")
		fb.Use(s.requireFeedbackStore())
		{
			fb.POST("", s.handleSaveFeedback)
			fb.GET("", s.handleListFeedback)
			fb.GET("/export", s.handleExportFeedback)
			fb.POST("/import", s.handleImportFeedback)
			fb.GET("/:assessment_id/:rule_id", s.handleGetFeedback)
			fb.DELETE("/:id", s.handleDeleteFeedback)
		}
	}
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+middleware.CorrelationIDHeader)
		c.Header("Access-Control-Expose-Headers", middleware.CorrelationIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
