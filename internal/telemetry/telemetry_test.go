package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/fortresslabs/shrinkd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNew_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, tel)

	// Disabled telemetry still hands out usable no-op instruments.
	assert.NotNil(t, tel.Tracer("optimizer"))
	assert.NotNil(t, tel.Meter("optimizer"))
	assert.False(t, tel.IsEnabled())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := &Config{
		Enabled:     true,
		Endpoint:    "",
		ServiceName: "",
	}

	tel, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, tel)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestTelemetry_Health(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	health := tel.Health()
	assert.True(t, health.Healthy)
	assert.False(t, health.Degraded)
	assert.Empty(t, health.Reason)
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	assert.NotPanics(t, func() {
		_ = tel.Tracer("optimizer")
		_ = tel.Meter("optimizer")
		_ = tel.LoggerProvider()
		_ = tel.Health()
		_ = tel.IsEnabled()
		_ = tel.Shutdown(context.Background())
		_ = tel.ForceFlush(context.Background())
		tel.SetLoggerProvider(nil)
	})

	health := tel.Health()
	assert.False(t, health.Healthy)
	assert.True(t, health.Degraded)
}

func TestTelemetry_Shutdown(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.False(t, tel.Health().Healthy, "shutdown flips healthy off")
}

func TestTelemetry_ShutdownHonorsCallerDeadline(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false
	cfg.Shutdown.Timeout = config.Duration(100 * time.Millisecond)

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, tel.Shutdown(ctx))
}

func TestTelemetry_LoggerProviderUnsetByDefault(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Nil(t, tel.LoggerProvider())
}

func TestTelemetry_ForceFlush_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, tel.ForceFlush(context.Background()))
}

func TestTestTelemetry_SpanRecording(t *testing.T) {
	tt := NewTestTelemetry()
	require.NotNil(t, tt)

	tracer := tt.Tracer("optimizer")
	_, span := tracer.Start(context.Background(), "optimize.request")
	span.SetAttributes(attribute.String("level", "balanced"))
	span.End()

	tt.AssertSpanExists(t, "optimize.request")
	tt.AssertSpanAttribute(t, "optimize.request", "level", "balanced")
}

func TestTestTelemetry_SpanByName(t *testing.T) {
	tt := NewTestTelemetry()

	assert.Nil(t, tt.SpanByName("missing"))

	tracer := tt.Tracer("optimizer")
	_, span := tracer.Start(context.Background(), "estimate.request")
	span.End()

	found := tt.SpanByName("estimate.request")
	require.NotNil(t, found)
	assert.Equal(t, "estimate.request", found.Name())
}

func TestTestTelemetry_MultipleSpans(t *testing.T) {
	tt := NewTestTelemetry()

	tracer := tt.Tracer("optimizer")

	_, span1 := tracer.Start(context.Background(), "optimize.request")
	span1.SetAttributes(attribute.Int64("tokens_saved", 120))
	span1.End()

	_, span2 := tracer.Start(context.Background(), "estimate.request")
	span2.SetAttributes(attribute.Int64("tokens", 480))
	span2.End()

	_, span3 := tracer.Start(context.Background(), "recommend.request")
	span3.SetAttributes(attribute.Bool("within_budget", true))
	span3.End()

	assert.Len(t, tt.Spans(), 3)
	tt.AssertSpanAttribute(t, "optimize.request", "tokens_saved", int64(120))
	tt.AssertSpanAttribute(t, "estimate.request", "tokens", int64(480))
	tt.AssertSpanAttribute(t, "recommend.request", "within_budget", true)
}

func TestTestTelemetry_SpanAttributeTypes(t *testing.T) {
	tt := NewTestTelemetry()

	tracer := tt.Tracer("optimizer")
	_, span := tracer.Start(context.Background(), "optimize.request")
	span.SetAttributes(
		attribute.String("provider", "openai"),
		attribute.Int64("original_tokens", 512),
		attribute.Float64("savings_pct", 23.4),
		attribute.Bool("code_detected", true),
	)
	span.End()

	tt.AssertSpanAttribute(t, "optimize.request", "provider", "openai")
	tt.AssertSpanAttribute(t, "optimize.request", "original_tokens", int64(512))
	tt.AssertSpanAttribute(t, "optimize.request", "savings_pct", 23.4)
	tt.AssertSpanAttribute(t, "optimize.request", "code_detected", true)
}

func TestTestTelemetry_MeterRecording(t *testing.T) {
	tt := NewTestTelemetry()
	require.NotNil(t, tt)

	meter := tt.Meter("optimizer")
	counter, err := meter.Int64Counter("optimize.requests")
	require.NoError(t, err)

	counter.Add(context.Background(), 1)
	counter.Add(context.Background(), 2)

	require.NoError(t, tt.MetricReader.ForceFlush(context.Background()))
	assert.NotEmpty(t, tt.MetricReader.Metrics())
}

func TestTestTelemetry_MetricReaderShutdown(t *testing.T) {
	tt := NewTestTelemetry()

	require.NoError(t, tt.MetricReader.Shutdown(context.Background()))
}

func TestTestTelemetry_ForceFlush(t *testing.T) {
	tt := NewTestTelemetry()

	tracer := tt.Tracer("optimizer")
	_, span := tracer.Start(context.Background(), "flush-check")
	span.End()

	require.NoError(t, tt.ForceFlush(context.Background()))
}

func TestTestTelemetry_Reset(t *testing.T) {
	tt := NewTestTelemetry()

	tracer := tt.Tracer("optimizer")
	_, span := tracer.Start(context.Background(), "optimize.request")
	span.End()

	assert.NotEmpty(t, tt.Spans())

	// Reset is a no-op on the span recorder; it must at least not panic.
	tt.Reset()
}

func TestTestTelemetry_Shutdown(t *testing.T) {
	tt := NewTestTelemetry()

	tracer := tt.Tracer("optimizer")
	_, span := tracer.Start(context.Background(), "optimize.request")
	span.End()

	meter := tt.Meter("optimizer")
	counter, _ := meter.Int64Counter("optimize.requests")
	counter.Add(context.Background(), 1)

	require.NoError(t, tt.Shutdown(context.Background()))
	assert.False(t, tt.Health().Healthy)
}
