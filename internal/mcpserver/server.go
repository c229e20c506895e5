// Package mcpserver exposes the optimization engine over the Model
// Context Protocol.
//
// This implementation uses the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp)
// and calls internal services directly on the stdio transport.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/optimizer"
	"github.com/fortresslabs/shrinkd/internal/providers"
)

// Server exposes optimizer tools over MCP.
type Server struct {
	mcp         *mcp.Server
	optimizer   *optimizer.Service
	estimator   *providers.Estimator
	recommender *providers.Recommender
	metrics     *Metrics
	logger      *zap.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "shrinkd")
	Name string

	// Version is the server version (default: "1.0.0")
	Version string

	// Logger for structured logging
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "shrinkd",
		Version: "1.0.0",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates a new MCP server with the given services.
func NewServer(
	cfg *Config,
	optimizerSvc *optimizer.Service,
	estimator *providers.Estimator,
	recommender *providers.Recommender,
) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if optimizerSvc == nil {
		return nil, fmt.Errorf("optimizer service is required")
	}
	if estimator == nil {
		return nil, fmt.Errorf("estimator is required")
	}
	if recommender == nil {
		return nil, fmt.Errorf("recommender is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:         mcpServer,
		optimizer:   optimizerSvc,
		estimator:   estimator,
		recommender: recommender,
		metrics:     NewMetrics(cfg.Logger),
		logger:      cfg.Logger,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
