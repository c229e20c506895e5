// Package telemetry provides OpenTelemetry instrumentation for shrinkd.
//
// # Overview
//
// This package implements distributed tracing and metrics collection
// using the OpenTelemetry Go SDK, exporting over OTLP to a collector.
//
// # Usage
//
// Create a telemetry instance:
//
//	cfg := telemetry.NewDefaultConfig()
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(ctx)
//
// Use tracer and meter:
//
//	tracer := tel.Tracer("shrinkd.optimizer")
//	ctx, span := tracer.Start(ctx, "optimize.request")
//	defer span.End()
//
//	meter := tel.Meter("shrinkd.optimizer")
//	counter, _ := meter.Int64Counter("optimize.requests")
//	counter.Add(ctx, 1)
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  service_name: "shrinkd"
//	  sampling:
//	    rate: 1.0  # 100% in dev, lower in prod
//	    always_on_errors: true
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
//
// # Error Handling
//
// Telemetry failures do not crash the service. If a provider cannot be
// initialized, the instance degrades gracefully and hands out no-op
// tracers and meters.
//
// # Testing
//
// Use TestTelemetry for in-memory span and metric capture:
//
//	tt := telemetry.NewTestTelemetry()
//	tracer := tt.Tracer("optimizer")
//	_, span := tracer.Start(ctx, "optimize.request")
//	span.End()
//	tt.AssertSpanExists(t, "optimize.request")
package telemetry
