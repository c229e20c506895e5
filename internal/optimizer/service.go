package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/fortresslabs/shrinkd/internal/optimizer"
const meterName = "optimizer"

// Boundary validation errors. The engine itself accepts any string; size
// and emptiness checks belong here at the service layer.
var (
	ErrEmptyPrompt    = errors.New("prompt cannot be empty")
	ErrPromptTooLarge = errors.New("prompt exceeds maximum size")
)

// ServiceConfig bounds and defaults for the optimization service.
type ServiceConfig struct {
	// DefaultLevel applies when a request names no level.
	DefaultLevel Level

	// DefaultProvider applies when a request names no provider.
	DefaultProvider Provider

	// MaxPromptBytes rejects oversized prompts before the quadratic
	// dedupe scan can hurt. Zero means the default cap.
	MaxPromptBytes int
}

// DefaultServiceConfig returns the production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultLevel:    LevelBalanced,
		DefaultProvider: ProviderOpenAI,
		MaxPromptBytes:  50000,
	}
}

// Service wraps Engine with input validation, structured logging, and
// OpenTelemetry traces and metrics. The HTTP and MCP surfaces call through
// it rather than the engine directly.
type Service struct {
	engine *Engine
	config ServiceConfig
	logger *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	opsCounter    metric.Int64Counter
	opsDuration   metric.Float64Histogram
	tokensSaved   metric.Int64Histogram
	savingsRatio  metric.Float64Histogram
	errorsCounter metric.Int64Counter
}

// NewService creates an optimization service. The logger is required.
func NewService(config ServiceConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if config.DefaultLevel == "" {
		config.DefaultLevel = LevelBalanced
	}
	if config.DefaultProvider == "" {
		config.DefaultProvider = ProviderOpenAI
	}
	if config.MaxPromptBytes <= 0 {
		config.MaxPromptBytes = DefaultServiceConfig().MaxPromptBytes
	}

	s := &Service{
		engine: NewEngine(),
		config: config,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		meter:  otel.Meter(meterName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return s, nil
}

// Config returns the active service configuration.
func (s *Service) Config() ServiceConfig {
	return s.config
}

// Optimize validates raw, fills option defaults, and runs one engine pass.
func (s *Service) Optimize(ctx context.Context, raw string, opts Options) (Result, error) {
	opts = s.applyDefaults(opts)

	ctx, span := s.tracer.Start(ctx, "optimizer.optimize",
		trace.WithAttributes(
			attribute.String("level", string(opts.Level)),
			attribute.String("provider", string(opts.Provider)),
			attribute.Int("prompt_bytes", len(raw)),
		),
	)
	defer span.End()

	start := time.Now()

	if err := s.validate(raw); err != nil {
		span.RecordError(err)
		s.errorsCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("error_type", errorType(err))))
		return Result{}, err
	}

	res := s.engine.Optimize(raw, opts)
	s.record(ctx, span, opts, res, time.Since(start))

	s.logger.Debug("optimized prompt",
		zap.String("level", string(opts.Level)),
		zap.String("provider", string(opts.Provider)),
		zap.Int("tokens_before", res.TokensBefore),
		zap.Int("tokens_after", res.TokensAfter),
		zap.Float64("percent_saved", res.PercentSaved),
	)
	return res, nil
}

// Noop validates raw and returns passthrough accounting. Used when
// optimization is switched off upstream but callers still want numbers.
func (s *Service) Noop(ctx context.Context, raw string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "optimizer.noop",
		trace.WithAttributes(attribute.Int("prompt_bytes", len(raw))),
	)
	defer span.End()

	if err := s.validate(raw); err != nil {
		span.RecordError(err)
		s.errorsCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("error_type", errorType(err))))
		return Result{}, err
	}
	return s.engine.Noop(raw), nil
}

func (s *Service) applyDefaults(opts Options) Options {
	if opts.Level == "" {
		opts.Level = s.config.DefaultLevel
	}
	if opts.Provider == "" {
		opts.Provider = s.config.DefaultProvider
	}
	return opts
}

func (s *Service) validate(raw string) error {
	if len(raw) == 0 {
		return ErrEmptyPrompt
	}
	if len(raw) > s.config.MaxPromptBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrPromptTooLarge, len(raw), s.config.MaxPromptBytes)
	}
	return nil
}

func (s *Service) record(ctx context.Context, span trace.Span, opts Options, res Result, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("level", string(opts.Level)),
		attribute.String("provider", string(opts.Provider)),
	)

	s.opsCounter.Add(ctx, 1, attrs)
	s.opsDuration.Record(ctx, elapsed.Seconds(), attrs)

	saved := res.TokensBefore - res.TokensAfter
	if saved < 0 {
		saved = 0
	}
	s.tokensSaved.Record(ctx, int64(saved), attrs)
	s.savingsRatio.Record(ctx, res.PercentSaved/100, attrs)

	span.SetAttributes(
		attribute.Int("tokens_before", res.TokensBefore),
		attribute.Int("tokens_after", res.TokensAfter),
		attribute.Float64("percent_saved", res.PercentSaved),
		attribute.Float64("duration_s", elapsed.Seconds()),
	)
}

func (s *Service) initMetrics() error {
	var err error

	s.opsCounter, err = s.meter.Int64Counter(
		"optimizer.operations_total",
		metric.WithDescription("Total number of optimization operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create operations counter: %w", err)
	}

	s.opsDuration, err = s.meter.Float64Histogram(
		"optimizer.duration_seconds",
		metric.WithDescription("Time spent on optimization operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	s.tokensSaved, err = s.meter.Int64Histogram(
		"optimizer.tokens_saved",
		metric.WithDescription("Tokens removed per optimization"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tokens saved histogram: %w", err)
	}

	s.savingsRatio, err = s.meter.Float64Histogram(
		"optimizer.savings_ratio",
		metric.WithDescription("Fraction of tokens removed per optimization"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.75, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create savings ratio histogram: %w", err)
	}

	s.errorsCounter, err = s.meter.Int64Counter(
		"optimizer.errors_total",
		metric.WithDescription("Total number of rejected optimization requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create errors counter: %w", err)
	}

	return nil
}

// errorType maps validation failures to a low-cardinality metric label.
func errorType(err error) string {
	switch {
	case errors.Is(err, ErrEmptyPrompt):
		return "empty_prompt"
	case errors.Is(err, ErrPromptTooLarge):
		return "prompt_too_large"
	default:
		return "internal"
	}
}
