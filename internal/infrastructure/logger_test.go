package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgersynth/internal/config"
)

// lastEntry decodes the last JSON line of content
func lastEntry(t *testing.T, content []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "nested", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	_, err = os.Stat(logFile)
	require.NoError(t, err, "log file and its directory should be created")

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := lastEntry(t, content)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLoggerOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.False(t, config.FileExists(filepath.Join(dir, "b.log")))
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "debug")

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.InfoContext(ctx, "test with trace")

	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "test-trace-123", entry["trace_id"])

	buf.Reset()
	logger.InfoContext(context.Background(), "no trace")
	entry = lastEntry(t, buf.Bytes())
	_, present := entry["trace_id"]
	assert.False(t, present)
}

func TestTraceIDSurvivesWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info").With("component", "generator").WithGroup("run")

	ctx := WithTraceID(context.Background(), "abc")
	logger.InfoContext(ctx, "grouped", "rows", 10)

	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "generator", entry["component"])
	run, ok := entry["run"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(10), run["rows"])
	assert.Equal(t, "abc", run["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level        string
		debugVisible bool
		warnVisible  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"warning", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewJSONLogger(&buf, tt.level)

			logger.Debug("debug line")
			logger.Warn("warn line")

			out := buf.String()
			assert.Equal(t, tt.debugVisible, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.warnVisible, strings.Contains(out, "warn line"))
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := ContextWithTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.NotEmpty(t, traceID)

	ctx2 := EnsureTraceID(ctx)
	assert.Equal(t, traceID, GetTraceID(ctx2), "existing trace ID must be kept")

	ctx3 := EnsureTraceID(context.Background())
	assert.NotEmpty(t, GetTraceID(ctx3))
	assert.NotEqual(t, traceID, GetTraceID(ctx3))
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info")

	WithComponent(logger, "test-component").Info("test message")
	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "test-component", entry["component"])

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("error test")
	entry = lastEntry(t, buf.Bytes())
	assert.Contains(t, entry["error"], "file does not exist")

	assert.Same(t, logger, WithError(logger, nil))
}
