package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AutoFormatIsJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: &buf})
	require.NoError(t, err)

	log.Info("failed to load tag container")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "failed to load tag container", entry["msg"])
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: FormatConsole, Output: &buf})
	require.NoError(t, err)

	log.Warn("skipping unreadable path")
	require.NoError(t, log.Sync())

	line := buf.String()
	assert.Contains(t, line, "WARN")
	assert.Contains(t, line, "skipping unreadable path")
	assert.False(t, strings.HasPrefix(line, "{"))
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "WARN", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Debug("hidden")
	require.NoError(t, log.Sync())

	assert.Empty(t, buf.String())
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml", Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	WithRun(log).Info("start")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	runID, ok := entry["run_id"].(string)
	require.True(t, ok)
	assert.Len(t, runID, 36)
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", "auto", "console", "json"} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("logfmt"))
}
