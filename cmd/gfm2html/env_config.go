package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-gfm2html/internal/config"
)

// envPrefix marks variables read by loadEnvConfig.
const envPrefix = "GFM2HTML_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // GFM2HTML_CONFIG: config file name or path
	Addr         string        // GFM2HTML_ADDR: server listen address
	LogLevel     string        // GFM2HTML_LOG_LEVEL
	LogFormat    string        // GFM2HTML_LOG_FORMAT
	Timeout      time.Duration // GFM2HTML_TIMEOUT: per-conversion timeout
	MaxBodyBytes int64         // GFM2HTML_MAX_BODY_BYTES: /convert body limit
	OutputDir    string        // GFM2HTML_OUTPUT_DIR: default output directory
	Workers      int           // GFM2HTML_WORKERS: parallel workers for convert
}

// knownEnvVars lists valid GFM2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"GFM2HTML_CONFIG":         true,
	"GFM2HTML_ADDR":           true,
	"GFM2HTML_LOG_LEVEL":      true,
	"GFM2HTML_LOG_FORMAT":     true,
	"GFM2HTML_TIMEOUT":        true,
	"GFM2HTML_MAX_BODY_BYTES": true,
	"GFM2HTML_OUTPUT_DIR":     true,
	"GFM2HTML_WORKERS":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable or non-positive numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("GFM2HTML_CONFIG"),
		Addr:       os.Getenv("GFM2HTML_ADDR"),
		LogLevel:   os.Getenv("GFM2HTML_LOG_LEVEL"),
		LogFormat:  os.Getenv("GFM2HTML_LOG_FORMAT"),
		OutputDir:  os.Getenv("GFM2HTML_OUTPUT_DIR"),
	}

	if timeout := os.Getenv("GFM2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if size := os.Getenv("GFM2HTML_MAX_BODY_BYTES"); size != "" {
		if n, err := strconv.ParseInt(size, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}

	if workers := os.Getenv("GFM2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized GFM2HTML_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overwrites config values with every env var that is set.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.MaxBodyBytes > 0 {
		cfg.Server.MaxBodyBytes = env.MaxBodyBytes
	}
	if env.Timeout > 0 {
		cfg.Convert.Timeout = env.Timeout.String()
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}

// resolveConfig loads the config named by the flag, else by GFM2HTML_CONFIG,
// else the defaults, then applies env overrides. The caller merges flags and
// validates.
func resolveConfig(flagConfig string) (*config.Config, *envConfig, error) {
	env := loadEnvConfig()

	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, env, nil
}
