// Package config holds the CLI configuration. The library itself needs no
// configuration: its defaults are the fixed artifact names in the system temp
// directory, which is what makes unrelated processes agree on a location.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvDataDir overrides the directory holding the shared artifacts.
const EnvDataDir = "LAYER_TIMING_DIR"

// Config represents the CLI configuration.
type Config struct {
	// DataDir overrides the directory holding the counter and flag files.
	// Empty means the system temp directory.
	DataDir string        `yaml:"data_dir,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls CLI log output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NormalizeLogLevel maps a raw string to a supported level, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	switch LogLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case LogLevelDebug:
		return LogLevelDebug
	case LogLevelWarn:
		return LogLevelWarn
	case LogLevelError:
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Slog maps the level to its slog equivalent.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat maps a raw string to a supported format, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	if LogFormat(strings.ToLower(strings.TrimSpace(raw))) == LogFormatJSON {
		return LogFormatJSON
	}
	return LogFormatText
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Load reads the configuration file at path, falling back to defaults when the
// file does not exist. Environment variables from .env/.env.local are loaded
// first without overriding the process environment, and LAYER_TIMING_DIR takes
// precedence over the file's data_dir.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is the common case for an operator tool.
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))

	if dir := os.Getenv(EnvDataDir); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// loadEnvFiles loads the first available .env file. Existing environment
// variables are never overridden.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", "path", envPath)
			return
		}
	}
}
