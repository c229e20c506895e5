// Shrinkd is a prompt token-optimization daemon.
//
// This binary starts the shrinkd HTTP server with full service
// initialization, including the provider catalog, usage ledger, and
// telemetry.
//
// Configuration is loaded from environment variables. See internal/config
// for details.
//
// Usage:
//
//	# Start server with defaults
//	shrinkd
//
//	# Configure via environment
//	SERVER_PORT=9090 OPTIMIZER_DEFAULT_LEVEL=aggressive shrinkd
//
//	# Run the MCP stdio server for editor integration
//	shrinkd mcp
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/config"
	"github.com/fortresslabs/shrinkd/internal/costs"
	"github.com/fortresslabs/shrinkd/internal/httpapi"
	"github.com/fortresslabs/shrinkd/internal/logging"
	"github.com/fortresslabs/shrinkd/internal/optimizer"
	"github.com/fortresslabs/shrinkd/internal/providers"
	"github.com/fortresslabs/shrinkd/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	flag.Parse()
	args := flag.Args()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	// Handle subcommands
	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		case "mcp":
			if err := runStdioServer(ctx, config.Load()); err != nil {
				log.Fatalf("MCP server error: %v", err)
			}
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  shrinkd           Start the shrinkd daemon\n")
			fmt.Fprintf(os.Stderr, "  shrinkd mcp       Start the MCP stdio server\n")
			fmt.Fprintf(os.Stderr, "  shrinkd version   Show version information\n")
			os.Exit(1)
		}
	}

	// Run server
	if err := run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("shrinkd by Fortress Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the shrinkd server and blocks until context is cancelled.
//
// This function initializes all dependencies and services:
//  1. Loads and validates configuration
//  2. Initializes logger and telemetry
//  3. Builds the provider catalog (with overrides and optional watching)
//  4. Creates the optimizer service and usage ledger
//  5. Starts the HTTP server with the metrics endpoint
//  6. Performs graceful shutdown on context cancellation
func run(ctx context.Context) error {
	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize telemetry first so the logger can bridge into it.
	// Telemetry failure degrades gracefully and never stops the daemon.
	tel, err := initTelemetry(ctx, cfg)
	if err != nil {
		log.Printf("Telemetry disabled: %v", err)
		tel = nil
	}

	// Initialize logger
	appLogger, err := initLogger(tel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = appLogger.Sync() // Best-effort sync on shutdown
	}()
	logger := appLogger.Underlying()

	logger.Info("Starting shrinkd",
		zap.Int("port", cfg.Server.Port),
		zap.String("version", version),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	// Build the provider catalog and optimization services.
	deps, watcher, err := initServices(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Create HTTP server with otel request metrics.
	srv, err := httpapi.NewServer(deps, logger, &httpapi.Config{
		Host:                "localhost",
		Port:                cfg.Server.Port,
		Version:             version,
		AnomalyLookbackDays: cfg.Costs.AnomalyLookbackDays,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}
	srv.Echo().Use(httpapi.NewHTTPMetrics(logger).MetricsMiddleware())

	// Register metrics endpoint
	srv.Echo().GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("metrics_endpoint", "/metrics"))

	// Start server (returns on listener failure or Shutdown)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	var runErr error
	select {
	case err := <-errCh:
		runErr = err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		runErr = errors.Join(runErr, srv.Shutdown(shutdownCtx))
		runErr = errors.Join(runErr, <-errCh)
	}

	// Teardown
	if watcher != nil {
		watcher.Stop()
	}
	if tel != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		runErr = errors.Join(runErr, tel.Shutdown(shutdownCtx))
	}

	return runErr
}

// initLogger initializes the structured logger, bridging into the OTEL
// log pipeline when telemetry is up.
func initLogger(tel *telemetry.Telemetry) (*logging.Logger, error) {
	logCfg := logging.NewDefaultConfig()
	if tel == nil {
		return logging.NewLogger(logCfg, nil)
	}
	if tel.LoggerProvider() != nil {
		logCfg.Output.OTEL = true
	}
	return logging.NewLogger(logCfg, tel.LoggerProvider())
}

// initTelemetry builds the OTLP providers when telemetry is enabled.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, error) {
	telCfg := telemetry.NewDefaultConfig()
	telCfg.Enabled = cfg.Observability.EnableTelemetry
	telCfg.ServiceName = cfg.Observability.ServiceName
	telCfg.ServiceVersion = version
	return telemetry.New(ctx, telCfg)
}

// initServices builds the catalog, estimator, recommender, ledger, and
// optimizer service. Returns the watcher (when overrides are being
// watched) so the caller can stop it at teardown.
func initServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (httpapi.Deps, *providers.Watcher, error) {
	catalog := providers.NewCatalog()

	var watcher *providers.Watcher
	if cfg.Providers.OverridesPath != "" {
		overrides, err := providers.LoadOverrides(cfg.Providers.OverridesPath)
		if err != nil {
			return httpapi.Deps{}, nil, fmt.Errorf("failed to load provider overrides: %w", err)
		}
		catalog.ApplyOverrides(overrides)

		if !cfg.Providers.DisableWatch {
			watcher, err = providers.NewWatcher(catalog, cfg.Providers.OverridesPath, logger)
			if err != nil {
				return httpapi.Deps{}, nil, fmt.Errorf("failed to create overrides watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return httpapi.Deps{}, nil, fmt.Errorf("failed to start overrides watcher: %w", err)
			}
			logger.Info("Watching provider overrides",
				zap.String("path", cfg.Providers.OverridesPath))
		}
	}

	calibration := providers.NewCalibration()
	estimator, err := providers.NewEstimator(catalog, calibration)
	if err != nil {
		return httpapi.Deps{}, nil, err
	}
	recommender, err := providers.NewRecommender(catalog, estimator)
	if err != nil {
		return httpapi.Deps{}, nil, err
	}

	ledger := costs.NewLedger()

	svc, err := optimizer.NewService(optimizer.ServiceConfig{
		DefaultLevel:    optimizer.Level(cfg.Optimizer.DefaultLevel),
		DefaultProvider: optimizer.Provider(cfg.Optimizer.DefaultProvider),
		MaxPromptBytes:  cfg.Optimizer.MaxPromptBytes,
	}, logger)
	if err != nil {
		return httpapi.Deps{}, nil, err
	}

	return httpapi.Deps{
		Optimizer:   svc,
		Catalog:     catalog,
		Estimator:   estimator,
		Recommender: recommender,
		Calibration: calibration,
		Ledger:      ledger,
		Advisor:     costs.NewAdvisorWithBudget(ledger, cfg.Costs.DailyBudgetUSD),
	}, watcher, nil
}
