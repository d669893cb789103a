package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/roster/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	logger.Info("student added", slog.String("name", "Ada Lovelace"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "student added", entry["msg"])
	assert.Equal(t, "Ada Lovelace", entry["name"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "source=")
}

func TestNew_SetsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{}, &buf)
	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
