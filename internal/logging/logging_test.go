package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohowmany/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

// TestJSONLoggerWithoutTimestamp 验证 JSON 格式、级别过滤与时间字段的去除。
func TestJSONLoggerWithoutTimestamp(t *testing.T) {
	var buffer bytes.Buffer
	logger, closer, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buffer)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("scan finished", "files", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "scan finished", record["msg"])
	assert.EqualValues(t, 3, record["files"])
	assert.NotContains(t, record, "time")
}

// TestTextLoggerToFile 验证写入文件时自动创建目录。
func TestTextLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gohowmany.log")
	logger, closer, err := New(config.LoggingConfig{Level: "warn", Format: "text", File: path, IncludeTimestamp: true}, nil)
	require.NoError(t, err)

	logger.Info("skipped")
	logger.Warn("file failed", "path", "a.go")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "level=WARN")
	assert.Contains(t, string(content), "path=a.go")
	assert.Contains(t, string(content), "time=")
	assert.NotContains(t, string(content), "skipped")
}
