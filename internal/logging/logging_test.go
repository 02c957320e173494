package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.log")

	logger, err := New(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Debug("resolved price", zap.String("commodity", "gold"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "resolved price", entry["msg"])
	assert.Equal(t, "gold", entry["commodity"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.log")

	logger, err := New(Config{Level: "chatty", Format: "json", Output: path})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestNew_RejectsUnwritableOutput(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "step.log")})
	assert.Error(t, err)
}

func TestInitialize_InstallsGlobalLogger(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	require.NoError(t, Initialize(DefaultConfig()))
	assert.NotNil(t, Logger)
	assert.NotSame(t, previous, Logger)
}

func TestGlobalHelpers_WriteToInstalledLogger(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core)

	Debug("configuration loaded")
	Info("database reachable")
	Warn("database is not active")
	With("lookup", zap.String("currency", "EUR")).Info("tagged")

	require.Equal(t, 4, logs.Len())
	all := logs.All()
	assert.Equal(t, zapcore.DebugLevel, all[0].Level)
	assert.Equal(t, zapcore.InfoLevel, all[1].Level)
	assert.Equal(t, zapcore.WarnLevel, all[2].Level)
	assert.Equal(t, map[string]interface{}{"command": "lookup", "currency": "EUR"}, all[3].ContextMap())
}
