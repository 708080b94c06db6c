package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger, err := New(Options{Level: "INFO", Format: FormatJSON, Output: &out})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("session restored", zap.String("user_id", "u-1"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "session restored", entry["msg"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Contains(t, entry, "ts")
}

func TestNewConsoleDefaultsToWarn(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger, err := New(Options{Output: &out})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("scheduled refresh failed")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "scheduled refresh failed")
}

func TestNewRejectsBadOptions(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud", Output: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "parse log level")

	_, err = New(Options{Format: "xml", Output: &bytes.Buffer{}})
	assert.ErrorContains(t, err, `unknown log format "xml"`)

	_, err = New(Options{})
	assert.ErrorContains(t, err, "log output is nil")
}
