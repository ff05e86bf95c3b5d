// Package config reads process configuration from the environment.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the environment overrides for the CLI defaults.
type Config struct {
	// Analysis settings
	Period             float64 `env:"AUDIOSYNC_PERIOD, default=0.1"`
	PulseLength        float64 `env:"AUDIOSYNC_PULSE_LENGTH, default=0.002"`
	DetectionThreshold float64 `env:"AUDIOSYNC_DETECTION_THRESHOLD, default=0.5"`
	LatencyThreshold   float64 `env:"AUDIOSYNC_LATENCY_THRESHOLD, default=0.001"`
	Workers            int     `env:"AUDIOSYNC_WORKERS, default=1"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=warn"`  // "debug", "info", "warn", "error"
}

// Load reads the configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// NewLogger builds a structured logger writing to out. debug forces the debug level.
func (c *Config) NewLogger(out io.Writer, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
