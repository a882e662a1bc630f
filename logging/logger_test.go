package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("uniform uploaded", "name", "Time")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "uniform uploaded", entry["msg"])
	assert.Equal(t, "Time", entry["name"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Error("shown", "err", "boom")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "err=boom")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{Level: "loud"}, nil)
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"}, nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
