// Package mcp exposes the advisor as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/wellness-advisor-server/internal/config"
	"github.com/wellness-advisor-server/internal/feedback"
	"github.com/wellness-advisor-server/internal/service"
)

const (
	serverName    = "wellness-advisor"
	serverVersion = "v1.0.0"
)

// Server is the stdio MCP server. It needs no external database; feedback lives in SQLite.
type Server struct {
	config    *config.LiteConfig
	mcpServer *mcp.Server
	advisor   *service.AdvisorService
	feedback  feedback.Store
	logger    *logrus.Logger
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server) error

// WithFeedbackStore sets a custom feedback store.
func WithFeedbackStore(store feedback.Store) ServerOption {
	return func(s *Server) error {
		s.feedback = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// NewServer creates the MCP server and registers its tools.
func NewServer(cfg *config.LiteConfig, opts ...ServerOption) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logrus.New(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if s.feedback == nil {
		store, err := feedback.NewSQLiteStore(cfg.FeedbackDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create feedback store: %w", err)
		}
		s.feedback = feedback.NewMeteredStore(store, feedback.DriverSQLite)
	}

	s.advisor = service.NewAdvisorService(s.logger)
	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)
	if err := s.registerTools(); err != nil {
		s.feedback.Close()
		return nil, err
	}

	s.logger.WithField("data_dir", cfg.DataDir).Info("MCP server initialized")
	return s, nil
}

func (s *Server) registerTools() error {
	profileSchema, err := evaluateProfileSchema()
	if err != nil {
		return fmt.Errorf("evaluate_profile input schema: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "evaluate_profile",
		Description: "Evaluate a genomic and lifestyle profile against the wellness rule catalog. " +
			"Returns matched alerts in catalog order, the total score and the risk tier.",
		InputSchema: profileSchema,
	}, s.handleEvaluateProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the pharmacogenomic and lifestyle rules with their weights and citations.",
	}, s.handleListRules)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "risk_tier",
		Description: "Map a total score onto the risk tier, severity class and gauge percentage.",
	}, s.handleRiskTier)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "submit_feedback",
		Description: "Record whether an alert from an assessment was helpful.",
	}, s.handleSubmitFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_feedback",
		Description: "Export all recorded alert feedback to a JSON file in the data directory.",
	}, s.handleExportFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_feedback",
		Description: "Look up the feedback recorded for one alert of an assessment.",
	}, s.handleQueryFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "import_feedback",
		Description: "Import feedback from a JSON export in the data directory. Entries that already exist are skipped.",
	}, s.handleImportFeedback)

	s.logger.WithField("tool_count", 7).Debug("Registered MCP tools")
	return nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting wellness advisor MCP server on stdio")
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.feedback != nil {
		if err := s.feedback.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close feedback store")
			return err
		}
	}
	return nil
}

// FeedbackStore returns the feedback store.
func (s *Server) FeedbackStore() feedback.Store {
	return s.feedback
}
