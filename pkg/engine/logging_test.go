package engine

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_NoFileDiscards(t *testing.T) {
	log, closer, err := NewLogger(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.NoError(t, closer.Close())
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gptchat.log")

	log, closer, err := NewLogger(Config{LogFile: path, LogLevel: "warn"})
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud", "credential", Credential("sk-secret"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
	assert.NotContains(t, string(data), "sk-secret")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
}
