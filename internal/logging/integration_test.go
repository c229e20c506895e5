package logging

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fortresslabs/shrinkd/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestIntegration_FullLoggingPipeline(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Level = TraceLevel
	cfg.Format = "json"
	cfg.Output.Stdout = true
	cfg.Output.OTEL = false
	cfg.Sampling.Enabled = false

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	defer func() {
		_ = logger.Sync()
	}()

	ctx := WithClient(context.Background(), &Client{Name: "shrinkctl", Version: "1.2.0"})
	ctx = WithSessionID(ctx, "sess_integration_123")
	ctx = WithRequestID(ctx, "opt_1700000000000")

	logger.Trace(ctx, "similarity pass", zap.String("detail", "ultra-verbose"))
	logger.Debug(ctx, "catalog lookup", zap.String("cache", "hit"))
	logger.Info(ctx, "optimization complete", zap.Duration("duration", 45*time.Millisecond))
	logger.Warn(ctx, "pricing override stale", zap.Int("retry_attempt", 2))
	logger.Error(ctx, "estimate failed", zap.Error(fmt.Errorf("unknown provider")))

	// Secrets go through the marshaler, never as plain strings.
	logger.Info(ctx, "config loaded",
		zap.Object("provider", &testProviderConfig{
			Name:   "openai",
			APIKey: config.Secret("sk-live-secret"),
		}),
	)

	child := logger.With(zap.String("component", "httpapi"))
	child.Info(ctx, "child log")

	named := logger.Named("optimizer")
	named.Info(ctx, "named log")

	// Sync on stdout fails under some harnesses; isStdoutSyncError
	// covers that, we just ensure no panic.
	_ = logger.Sync()
}

type testProviderConfig struct {
	Name   string
	APIKey config.Secret
}

func (c *testProviderConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", c.Name)
	return (&secretMarshaler{key: "api_key", val: c.APIKey}).MarshalLogObject(enc)
}

func TestIntegration_ContextFieldInjection(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithClient(context.Background(), &Client{Name: "shrinkctl", Version: "1.2.0"})
	ctx = WithSessionID(ctx, "sess_123")

	tl.Info(ctx, "request", zap.String("method", "POST"))

	tl.AssertLogged(t, zapcore.InfoLevel, "request")
	tl.AssertField(t, "request", "client.name", "shrinkctl")
	tl.AssertField(t, "request", "client.version", "1.2.0")
	tl.AssertField(t, "request", "session.id", "sess_123")
	tl.AssertField(t, "request", "method", "POST")
}

func TestIntegration_SecretRedaction(t *testing.T) {
	tl := NewTestLogger()

	secret := config.Secret("my-secret-token")
	tl.Info(context.Background(), "auth",
		Secret("credentials", secret),
	)

	tl.AssertLogged(t, zapcore.InfoLevel, "auth")
	tl.AssertNoSecrets(t)
}
