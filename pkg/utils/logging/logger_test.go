package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	startedAt := time.Date(2025, time.March, 4, 9, 30, 15, 0, time.UTC)

	assert.Equal(t, filepath.Join("logs", "prod_2025-03-04_09-30-15.log"), LogFilePath("logs", "prod", startedAt))
	assert.Equal(t, filepath.Join("x", "default_2025-03-04_09-30-15.log"), LogFilePath("x", "", startedAt))
}

func TestInitLogger_WritesJSONDebugLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	logger, err := InitLogger("test", dir)
	require.NoError(t, err)

	logger.Debug("allocating")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^test_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.log$`, entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "allocating", line["msg"])
	assert.Contains(t, line, "timestamp")
}
