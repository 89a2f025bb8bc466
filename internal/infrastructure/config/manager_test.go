package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	return tmp
}

func loadedManager(t *testing.T) *config.Manager {
	t.Helper()
	m, err := config.NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())
	return m
}

func TestLoadCreatesDefaultConfigFile(t *testing.T) {
	tmp := isolateXDG(t)
	m := loadedManager(t)

	configFile := filepath.Join(tmp, "config", "fickle", "config.toml")
	_, err := os.Stat(configFile)
	require.NoError(t, err, "first Load should create a default config file")
	assert.Equal(t, configFile, m.GetConfigFile())

	cfg := m.Get()
	assert.Equal(t, config.HardwareAccelerationAuto, cfg.WebKit.HardwareAcceleration)
	assert.Equal(t, 10000, cfg.Session.SnapshotIntervalMs)
	assert.True(t, cfg.Session.AutoRestore)
	assert.Equal(t, filepath.Join(tmp, "data", "fickle", "fickle.sqlite"), cfg.Database.Path)
}

func TestEnginePreferenceRoundTrip(t *testing.T) {
	isolateXDG(t)
	m := loadedManager(t)

	assert.Empty(t, m.EnginePreference())

	require.NoError(t, m.SetEnginePreference(t.Context(), "webkit-platform"))
	assert.Equal(t, entity.EngineID("webkit-platform"), m.EnginePreference())

	// A fresh manager reading the same file sees the persisted value.
	reloaded := loadedManager(t)
	assert.Equal(t, entity.EngineID("webkit-platform"), reloaded.EnginePreference())
}

func TestLoadNormalizesHardwareAcceleration(t *testing.T) {
	tmp := isolateXDG(t)
	configDir := filepath.Join(tmp, "config", "fickle")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.toml"),
		[]byte("[webkit]\nhardware_acceleration = \"ALWAYS\"\n"),
		0o600,
	))

	m := loadedManager(t)
	assert.Equal(t, config.HardwareAccelerationAlways, m.Get().WebKit.HardwareAcceleration)
}

func TestLoadRejectsNegativeSnapshotInterval(t *testing.T) {
	tmp := isolateXDG(t)
	configDir := filepath.Join(tmp, "config", "fickle")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.toml"),
		[]byte("[session]\nsnapshot_interval_ms = -5\n"),
		0o600,
	))

	m, err := config.NewManager()
	require.NoError(t, err)
	assert.Error(t, m.Load())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	isolateXDG(t)
	t.Setenv("FICKLE_ENGINE", "external")

	m := loadedManager(t)
	assert.Equal(t, entity.EngineID("external"), m.EnginePreference())
}

func TestEnvironmentOverridesExistingFile(t *testing.T) {
	tmp := isolateXDG(t)
	configDir := filepath.Join(tmp, "config", "fickle")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.toml"),
		[]byte("[engine]\npreferred = \"webkit-full\"\n\n[logging]\nlevel = \"info\"\n"),
		0o600,
	))
	t.Setenv("FICKLE_ENGINE", "external")
	t.Setenv("FICKLE_LOG_LEVEL", "debug")

	// Keys spelled out in the file must still lose to the env overrides.
	m := loadedManager(t)
	assert.Equal(t, entity.EngineID("external"), m.EnginePreference())
	assert.Equal(t, "debug", m.Get().Logging.Level)
}
