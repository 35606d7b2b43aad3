package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/msalah0e/strainscope/internal/config"
)

func TestDisabledIsNop(t *testing.T) {
	logger, err := New(config.LogConfig{}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestWritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "out.log")
	logger, err := New(config.LogConfig{Enabled: true, Level: "info", File: file}, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("focus", zap.String("strain", "og-kush"), zap.Int("year", 1991))
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"focus"`)
	assert.Contains(t, out, `"strain":"og-kush"`)
	assert.NotContains(t, out, "hidden")
}

func TestVerboseForcesDebug(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	logger, err := New(config.LogConfig{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, strings.HasPrefix(DefaultFile(), os.Getenv("XDG_STATE_HOME")))
}

func TestBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Enabled: true, Level: "loud", File: filepath.Join(t.TempDir(), "x.log")}, false)
	assert.Error(t, err)
}
