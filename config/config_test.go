package config

import (
	"os"
	"testing"

	"github.com/adrg/xdg"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

// clearEnv removes a variable for the test, restoring it afterwards.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDefaults(t *testing.T) {
	isolateXDG(t)
	clearEnv(t, "KITH_API_BASE_URL")
	clearEnv(t, "KITH_DB_PATH")
	clearEnv(t, "KITH_DEVICE_ID")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.kith.im/api", cfg.APIBaseURL)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, "@every 1m", cfg.SyncSchedule)
	assert.False(t, cfg.Debug)

	// The minted device id is a parseable ULID.
	_, err = ulid.Parse(cfg.DeviceID)
	assert.NoError(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolateXDG(t)
	t.Setenv("KITH_API_BASE_URL", "http://localhost:3000/api")
	t.Setenv("KITH_DB_PATH", "/tmp/kith-test.db")
	t.Setenv("KITH_DEVICE_ID", "explicit-device")
	t.Setenv("KITH_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/kith-test.db", cfg.DBPath)
	assert.Equal(t, "explicit-device", cfg.DeviceID)
	assert.True(t, cfg.Debug)
}

func TestDeviceIDPersistsAcrossLoads(t *testing.T) {
	isolateXDG(t)
	clearEnv(t, "KITH_DEVICE_ID")

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Equal(t, first.DeviceID, second.DeviceID)
}
