package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerLevelOverride(t *testing.T) {
	require.NoError(t, InitLogger("development", "warn"))
	assert.False(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, GetLogger().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, InitLogger("development", ""))
	assert.True(t, GetLogger().Core().Enabled(zapcore.DebugLevel))
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	err := InitLogger("development", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}
