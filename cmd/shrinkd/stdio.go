package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/config"
	"github.com/fortresslabs/shrinkd/internal/mcpserver"
	"github.com/fortresslabs/shrinkd/internal/optimizer"
	"github.com/fortresslabs/shrinkd/internal/providers"
)

// runStdioServer runs the MCP server over stdio. Logs go to stderr so
// stdout stays clean for the JSON-RPC transport.
func runStdioServer(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	catalog := providers.NewCatalog()
	if cfg.Providers.OverridesPath != "" {
		overrides, err := providers.LoadOverrides(cfg.Providers.OverridesPath)
		if err != nil {
			return fmt.Errorf("failed to load provider overrides: %w", err)
		}
		catalog.ApplyOverrides(overrides)
	}

	estimator, err := providers.NewEstimator(catalog, providers.NewCalibration())
	if err != nil {
		return err
	}
	recommender, err := providers.NewRecommender(catalog, estimator)
	if err != nil {
		return err
	}

	svc, err := optimizer.NewService(optimizer.ServiceConfig{
		DefaultLevel:    optimizer.Level(cfg.Optimizer.DefaultLevel),
		DefaultProvider: optimizer.Provider(cfg.Optimizer.DefaultProvider),
		MaxPromptBytes:  cfg.Optimizer.MaxPromptBytes,
	}, logger)
	if err != nil {
		return err
	}

	srv, err := mcpserver.NewServer(&mcpserver.Config{
		Name:    "shrinkd",
		Version: version,
		Logger:  logger,
	}, svc, estimator, recommender)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv.Run(ctx)
}
