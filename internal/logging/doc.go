// Package logging provides structured logging with OpenTelemetry integration.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Dual output (stdout + OpenTelemetry)
//   - Automatic context field injection (trace_id, client, session, request)
//   - Defense-in-depth secret redaction (prompt text never hits the logs)
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx := logging.WithClient(ctx, &logging.Client{Name: "claude-desktop", Version: "1.2.0"})
//	ctx = logging.WithRequestID(ctx, "opt_1756180000000")
//	logger.Info(ctx, "prompt optimized", zap.Int("tokens_saved", n))
//
// Output includes automatic correlation:
//
//	{
//	  "ts": "2026-08-26T10:15:30Z",
//	  "level": "info",
//	  "msg": "prompt optimized",
//	  "trace_id": "abc123",
//	  "client.name": "claude-desktop",
//	  "request.id": "opt_1756180000000",
//	  "tokens_saved": 412
//	}
//
// # Prompt Safety
//
// Prompts routinely carry credentials, customer data, and proprietary
// source. Nothing in this package ever logs prompt text: the default
// redaction config blocks fields named prompt/text/content, and callers
// that need to correlate identical prompts use TextDigest, which logs
// only a length and truncated hash:
//
//	logger.Info(ctx, "optimize request", logging.TextDigest("prompt", req.Prompt))
//
// # Secret Redaction
//
// Secrets are redacted at multiple layers:
//  1. Domain primitives (config.Secret type)
//  2. Encoder-level field name filtering
//  3. Encoder-level pattern matching (bearer tokens, API keys)
//
// Use helpers for manual redaction:
//
//	logger.Info(ctx, "auth received",
//	    logging.RedactedString("authorization", authHeader))
//
// # Sampling
//
// Level-aware sampling prevents log floods:
//   - Trace: first 1 per second, drop rest
//   - Debug: first 10 per second, drop rest
//   - Info: first 100, then 1 every 10
//   - Warn: first 100, then 1 every 100
//   - Error+: never sampled
//
// Disable for debugging:
//
//	cfg.Sampling.Enabled = false
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//	tl.AssertNoSecrets(t)
//
// # Concurrency Safety
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
