// Package httpapi provides the HTTP API for shrinkd.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/costs"
	"github.com/fortresslabs/shrinkd/internal/optimizer"
	"github.com/fortresslabs/shrinkd/internal/providers"
)

// Server exposes the optimization, provider, and usage endpoints.
type Server struct {
	echo    *echo.Echo
	deps    Deps
	logger  *zap.Logger
	config  *Config
	version string
}

// Config holds HTTP server configuration.
type Config struct {
	Host    string
	Port    int
	Version string

	// AnomalyLookbackDays is the default window for the anomalies
	// endpoint when the caller sends no days parameter.
	AnomalyLookbackDays int
}

// Deps carries the services the server fronts. Optimizer, Catalog,
// Estimator, Recommender, and Ledger are required; the costs views are
// built from the ledger when left nil.
type Deps struct {
	Optimizer   *optimizer.Service
	Catalog     *providers.Catalog
	Estimator   *providers.Estimator
	Recommender *providers.Recommender
	Calibration *providers.Calibration
	Ledger      *costs.Ledger
	Predictor   *costs.Predictor
	Detector    *costs.Detector
	Advisor     *costs.Advisor
	Scorer      *costs.Scorer
}

func (d *Deps) validate() error {
	if d.Optimizer == nil {
		return fmt.Errorf("optimizer service cannot be nil")
	}
	if d.Catalog == nil {
		return fmt.Errorf("provider catalog cannot be nil")
	}
	if d.Estimator == nil {
		return fmt.Errorf("estimator cannot be nil")
	}
	if d.Recommender == nil {
		return fmt.Errorf("recommender cannot be nil")
	}
	if d.Ledger == nil {
		return fmt.Errorf("usage ledger cannot be nil")
	}
	return nil
}

func (d *Deps) fillDefaults() {
	if d.Predictor == nil {
		d.Predictor = costs.NewPredictor(d.Ledger)
	}
	if d.Detector == nil {
		d.Detector = costs.NewDetector(d.Ledger)
	}
	if d.Advisor == nil {
		d.Advisor = costs.NewAdvisor(d.Ledger)
	}
	if d.Scorer == nil {
		d.Scorer = costs.NewScorer(d.Ledger)
	}
}

// NewServer creates a new HTTP server.
func NewServer(deps Deps, logger *zap.Logger, cfg *Config) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8787,
		}
	}
	if cfg.AnomalyLookbackDays <= 0 {
		cfg.AnomalyLookbackDays = defaultAnomalyLookbackDays
	}
	deps.fillDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		deps:    deps,
		logger:  logger,
		config:  cfg,
		version: cfg.Version,
	}
	if s.version == "" {
		s.version = "dev"
	}

	// Register routes
	s.registerRoutes()

	return s, nil
}

// Echo exposes the underlying router so the daemon can attach extra
// handlers, like the Prometheus /metrics endpoint.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	// Health check
	s.echo.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.POST("/optimize", s.handleOptimize)
	v1.POST("/optimize/preview", s.handlePreview)
	v1.POST("/estimate", s.handleEstimate)
	v1.GET("/providers", s.handleProviders)
	v1.POST("/providers/recommend", s.handleRecommend)
	v1.GET("/pricing", s.handlePricing)
	v1.POST("/usage", s.handleUsageRecord)
	v1.GET("/usage/summary", s.handleUsageSummary)
	v1.GET("/usage/prediction", s.handleUsagePrediction)
	v1.GET("/usage/anomalies", s.handleUsageAnomalies)
	v1.GET("/usage/advice", s.handleUsageAdvice)
	v1.GET("/usage/efficiency", s.handleUsageEfficiency)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "shrinkd",
		Version: s.version,
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
