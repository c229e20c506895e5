// Package config provides configuration loading for shrinkd.
//
// Configuration is loaded from environment variables with sensible defaults,
// or from a YAML file with environment overrides via LoadWithFile.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete shrinkd configuration.
type Config struct {
	Server        ServerConfig
	Observability ObservabilityConfig
	Optimizer     OptimizerConfig
	Providers     ProvidersConfig
	Costs         CostsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ObservabilityConfig holds OpenTelemetry configuration.
type ObservabilityConfig struct {
	EnableTelemetry bool   `koanf:"enable_telemetry"`
	ServiceName     string `koanf:"service_name"`
}

// OptimizerConfig holds prompt optimization defaults. Requests that omit
// a level or provider fall back to these.
type OptimizerConfig struct {
	DefaultLevel    string `koanf:"default_level"`
	DefaultProvider string `koanf:"default_provider"`
	MaxPromptBytes  int    `koanf:"max_prompt_bytes"`
}

// ProvidersConfig holds provider catalog configuration.
type ProvidersConfig struct {
	// OverridesPath points at a TOML file adjusting catalog pricing and
	// rankings. Empty means the built-in catalog is used unmodified.
	OverridesPath string `koanf:"overrides_path"`
	// DisableWatch turns off live reload of the overrides file. Watching
	// only happens when OverridesPath is set.
	DisableWatch bool `koanf:"disable_watch"`
}

// CostsConfig holds usage tracking configuration.
type CostsConfig struct {
	DailyBudgetUSD      float64 `koanf:"daily_budget_usd"`
	AnomalyLookbackDays int     `koanf:"anomaly_lookback_days"`
}

// Load loads configuration from environment variables with defaults.
//
// Environment variables:
//   - SERVER_PORT: HTTP server port (default: 8787)
//   - SERVER_SHUTDOWN_TIMEOUT: Graceful shutdown timeout (default: 10s)
//   - OTEL_ENABLE: Enable OpenTelemetry (default: false)
//   - OTEL_SERVICE_NAME: Service name for traces (default: shrinkd)
//   - OPTIMIZER_DEFAULT_LEVEL: Optimization level when unset (default: balanced)
//   - OPTIMIZER_DEFAULT_PROVIDER: Provider when unset (default: openai)
//   - OPTIMIZER_MAX_PROMPT_BYTES: Prompt size cap (default: 50000)
//   - PROVIDERS_OVERRIDES_PATH: Catalog overrides TOML path (default: none)
//   - PROVIDERS_DISABLE_WATCH: Turn off overrides live reload (default: false)
//   - COSTS_DAILY_BUDGET_USD: Budget alert threshold (default: 10)
//   - COSTS_ANOMALY_LOOKBACK_DAYS: Anomaly detection window (default: 7)
//
// Example:
//
//	cfg := config.Load()
//	fmt.Println("Server port:", cfg.Server.Port)
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8787),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Observability: ObservabilityConfig{
			EnableTelemetry: getEnvBool("OTEL_ENABLE", false),
			ServiceName:     getEnvString("OTEL_SERVICE_NAME", "shrinkd"),
		},
		Optimizer: OptimizerConfig{
			DefaultLevel:    getEnvString("OPTIMIZER_DEFAULT_LEVEL", "balanced"),
			DefaultProvider: getEnvString("OPTIMIZER_DEFAULT_PROVIDER", "openai"),
			MaxPromptBytes:  getEnvInt("OPTIMIZER_MAX_PROMPT_BYTES", 50000),
		},
		Providers: ProvidersConfig{
			OverridesPath: getEnvString("PROVIDERS_OVERRIDES_PATH", ""),
			DisableWatch:  getEnvBool("PROVIDERS_DISABLE_WATCH", false),
		},
		Costs: CostsConfig{
			DailyBudgetUSD:      getEnvFloat("COSTS_DAILY_BUDGET_USD", 10),
			AnomalyLookbackDays: getEnvInt("COSTS_ANOMALY_LOOKBACK_DAYS", 7),
		},
	}
}

// namedLevels are the optimization levels accepted in configuration.
// Per-request custom numeric thresholds bypass this set.
var namedLevels = map[string]bool{
	"conservative": true,
	"balanced":     true,
	"aggressive":   true,
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Service name is empty (when telemetry is enabled)
//   - Optimizer defaults name an unknown level or empty provider
//   - Max prompt bytes, daily budget, or anomaly lookback is not positive
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Observability.EnableTelemetry && c.Observability.ServiceName == "" {
		return errors.New("service name required when telemetry is enabled")
	}

	if !namedLevels[strings.ToLower(c.Optimizer.DefaultLevel)] {
		return fmt.Errorf("invalid optimizer default level: %q (must be conservative, balanced, or aggressive)", c.Optimizer.DefaultLevel)
	}

	if c.Optimizer.DefaultProvider == "" {
		return errors.New("optimizer default provider cannot be empty")
	}

	if c.Optimizer.MaxPromptBytes <= 0 {
		return fmt.Errorf("max prompt bytes must be positive, got %d", c.Optimizer.MaxPromptBytes)
	}

	if c.Costs.DailyBudgetUSD <= 0 {
		return fmt.Errorf("daily budget must be positive, got %v", c.Costs.DailyBudgetUSD)
	}

	if c.Costs.AnomalyLookbackDays < 1 {
		return fmt.Errorf("anomaly lookback must be at least 1 day, got %d", c.Costs.AnomalyLookbackDays)
	}

	return nil
}

// Helper functions for environment variable parsing

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
