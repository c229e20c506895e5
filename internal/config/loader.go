package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// LoadWithFile loads configuration from a YAML file, then overrides
// with environment variables. Precedence, highest first: env vars
// (SERVER_HTTP_PORT, OPTIMIZER_DEFAULT_LEVEL, ...), the YAML file,
// hardcoded defaults. An empty configPath means
// ~/.config/shrinkd/config.yaml.
//
// The file is subject to three checks before it is parsed: it must
// live under ~/.config/shrinkd/ or /etc/shrinkd/, carry 0600 or 0400
// permissions, and stay under 1MB. A missing file is not an error.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "shrinkd", "config.yaml")
	}

	// Path validation runs whether or not the file exists.
	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate via the open descriptor to avoid a
		// TOCTOU race between the permission check and the read.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}

		if err := validateConfigFileProperties(info); err != nil {
			return nil, fmt.Errorf("config file validation failed: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Env vars map SECTION_FIELD_NAME -> section.field_name: split on
	// the first underscore only so field names keep theirs, e.g.
	// SERVER_HTTP_PORT -> server.http_port, PROVIDERS_OVERRIDES_PATH ->
	// providers.overrides_path.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		lower := strings.ToLower(s)
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// EnsureConfigDir creates ~/.config/shrinkd with 0700 permissions if
// it does not exist yet. Called at startup.
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "shrinkd")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	return nil
}

// validateConfigPath checks that path resolves into one of the
// allowed config directories. Symlinks are followed so a link cannot
// escape them; paths that do not exist yet validate against their
// absolute form.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolvedPath = absPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	allowedDirs := []string{
		filepath.Join(home, ".config", "shrinkd"),
		"/etc/shrinkd",
	}

	// Prefix match must stop at a path separator so /etc/shrinkd../x
	// cannot masquerade as /etc/shrinkd/x.
	allowed := false
	for _, dir := range allowedDirs {
		if resolvedPath == dir || strings.HasPrefix(resolvedPath, dir+string(os.PathSeparator)) {
			allowed = true
			break
		}
	}

	if !allowed {
		return fmt.Errorf("config file must be in ~/.config/shrinkd/ or /etc/shrinkd/")
	}

	return nil
}

// validateConfigFileProperties checks permissions and size. Takes the
// FileInfo from an already-open descriptor so the checked file is the
// one that gets read.
func validateConfigFileProperties(info os.FileInfo) error {
	// The permission model differs on Windows; skip the mode check there.
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8787
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// Observability defaults
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "shrinkd"
	}

	// Optimizer defaults
	if cfg.Optimizer.DefaultLevel == "" {
		cfg.Optimizer.DefaultLevel = "balanced"
	}
	if cfg.Optimizer.DefaultProvider == "" {
		cfg.Optimizer.DefaultProvider = "openai"
	}
	if cfg.Optimizer.MaxPromptBytes == 0 {
		cfg.Optimizer.MaxPromptBytes = 50000
	}

	// Costs defaults
	if cfg.Costs.DailyBudgetUSD == 0 {
		cfg.Costs.DailyBudgetUSD = 10
	}
	if cfg.Costs.AnomalyLookbackDays == 0 {
		cfg.Costs.AnomalyLookbackDays = 7
	}
}
