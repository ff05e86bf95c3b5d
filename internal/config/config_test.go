package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"AUDIOSYNC_PERIOD", "AUDIOSYNC_PULSE_LENGTH", "AUDIOSYNC_DETECTION_THRESHOLD",
		"AUDIOSYNC_LATENCY_THRESHOLD", "AUDIOSYNC_WORKERS", "LOG_FORMAT", "LOG_LEVEL",
	} {
		// Setenv restores the original value once the test ends.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 0.1, cfg.Period, 1e-12)
	assert.InDelta(t, 0.002, cfg.PulseLength, 1e-12)
	assert.InDelta(t, 0.5, cfg.DetectionThreshold, 1e-12)
	assert.InDelta(t, 0.001, cfg.LatencyThreshold, 1e-12)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("AUDIOSYNC_PERIOD", "0.2")
	t.Setenv("AUDIOSYNC_WORKERS", "4")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 0.2, cfg.Period, 1e-12)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("AUDIOSYNC_WORKERS", "many")

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelWarn},
		{"", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer

		cfg := &Config{LogFormat: "json", LogLevel: "info"}
		cfg.NewLogger(&buf, false).Info("hello", "key", "value")

		assert.True(t, strings.HasPrefix(buf.String(), "{"))
		assert.Contains(t, buf.String(), `"key":"value"`)
	})

	t.Run("text format filters below level", func(t *testing.T) {
		var buf bytes.Buffer

		cfg := &Config{LogFormat: "text", LogLevel: "warn"}
		logger := cfg.NewLogger(&buf, false)
		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("debug flag overrides level", func(t *testing.T) {
		var buf bytes.Buffer

		cfg := &Config{LogFormat: "text", LogLevel: "error"}
		cfg.NewLogger(&buf, true).Debug("visible")

		assert.Contains(t, buf.String(), "msg=visible")
	})
}
