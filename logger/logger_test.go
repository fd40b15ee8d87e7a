package logger

import (
	"os"
	"path/filepath"
	"testing"

	"realtimesales/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_LevelAndFormat(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Format: "text"}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)

	require.NoError(t, Init(&config.LogConfig{Level: "warn", Format: "json"}))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
}

func TestInit_InvalidLevel(t *testing.T) {
	assert.Error(t, Init(&config.LogConfig{Level: "loud"}))
}

func TestInit_WritesToFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init(&config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1}))

	logrus.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
