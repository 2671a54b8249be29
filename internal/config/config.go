package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-gfm2html/internal/fileutil"
	"github.com/alnah/go-gfm2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Limits enforced by Validate.
const (
	MaxBodyBytesLimit = 64 << 20 // Hard ceiling for server.maxBodyBytes
	MaxAddrLength     = 255
	MaxDirLength      = 4096
)

// appDirName is the directory under the user config dir searched for named configs.
const appDirName = "go-gfm2html"

// Config holds all configuration for the server and CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Convert ConvertConfig `yaml:"convert"`
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
}

// ServerConfig defines HTTP server options. Durations use time.ParseDuration syntax.
type ServerConfig struct {
	Addr            string `yaml:"addr"`            // Listen address (default ":5000")
	ReadTimeout     string `yaml:"readTimeout"`     // default "10s"
	WriteTimeout    string `yaml:"writeTimeout"`    // default "30s"
	ShutdownTimeout string `yaml:"shutdownTimeout"` // default "10s"
	MaxBodyBytes    int64  `yaml:"maxBodyBytes"`    // default 1MB
}

// ConvertConfig defines per-conversion options.
type ConvertConfig struct {
	Timeout string `yaml:"timeout"` // Bound on one conversion (default "30s")
}

// LogConfig defines logger options.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error (default "info")
	Format string `yaml:"format"` // console, json, pretty (default "console")
}

// OutputConfig defines CLI output options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to each source file
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			ReadTimeout:     "10s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "10s",
			MaxBodyBytes:    1 << 20,
		},
		Convert: ConvertConfig{Timeout: "30s"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// Validate checks ranges and enumerations.
// Called automatically by LoadConfig, but available for callers that
// build or override a Config in code (env vars, flags).
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidValue)
	}
	if len(c.Server.Addr) > MaxAddrLength {
		return fmt.Errorf("%w: server.addr (%d chars, max %d)", ErrInvalidValue, len(c.Server.Addr), MaxAddrLength)
	}
	if c.Server.MaxBodyBytes < 1 || c.Server.MaxBodyBytes > MaxBodyBytesLimit {
		return fmt.Errorf("%w: server.maxBodyBytes must be between 1 and %d, got %d",
			ErrInvalidValue, MaxBodyBytesLimit, c.Server.MaxBodyBytes)
	}

	durations := []struct {
		field string
		value string
	}{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"convert.timeout", c.Convert.Timeout},
	}
	for _, d := range durations {
		if _, err := parsePositiveDuration(d.field, d.value); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("%w: log.level %q (must be trace, debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json", "pretty":
		// valid
	default:
		return fmt.Errorf("%w: log.format %q (must be console, json, or pretty)", ErrInvalidValue, c.Log.Format)
	}

	if len(c.Output.DefaultDir) > MaxDirLength {
		return fmt.Errorf("%w: output.defaultDir (%d chars, max %d)", ErrInvalidValue, len(c.Output.DefaultDir), MaxDirLength)
	}
	return nil
}

// ReadTimeoutDuration returns server.readTimeout. Call after Validate.
func (s ServerConfig) ReadTimeoutDuration() time.Duration { return mustDuration(s.ReadTimeout) }

// WriteTimeoutDuration returns server.writeTimeout. Call after Validate.
func (s ServerConfig) WriteTimeoutDuration() time.Duration { return mustDuration(s.WriteTimeout) }

// ShutdownTimeoutDuration returns server.shutdownTimeout. Call after Validate.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration { return mustDuration(s.ShutdownTimeout) }

// TimeoutDuration returns convert.timeout. Call after Validate.
func (c ConvertConfig) TimeoutDuration() time.Duration { return mustDuration(c.Timeout) }

func parsePositiveDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// mustDuration parses a duration already checked by Validate.
// Unparseable values yield 0, which callers treat as "no limit".
func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// LoadConfig loads configuration from a file path or config name, on top
// of DefaultConfig. If nameOrPath contains a path separator, it's treated
// as a file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Dump renders cfg as YAML, in the format LoadConfig accepts.
func Dump(cfg *Config) ([]byte, error) {
	return yamlutil.Encode(cfg)
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-gfm2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
