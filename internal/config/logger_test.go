package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggerConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Str("plate_id", "p1").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "p1", entry["plate_id"])
	assert.Contains(t, entry, "time")
}

func TestNewLoggerWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggerConfig{Level: "debug", Format: "console"}, &buf)

	logger.Debug().Msg("hello console")

	assert.Contains(t, buf.String(), "hello console")
	assert.Contains(t, buf.String(), "DBG")
}

func TestNewLoggerWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggerConfig{Level: "loud", Format: "json"}, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
