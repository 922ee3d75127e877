package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryerd/dryerd/internal/storage"
)

func initTestConfig(t *testing.T) *Config {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Initialize())
	return Get()
}

func TestDefaults(t *testing.T) {
	os.Unsetenv("DRYERD_HOME")
	cfg := initTestConfig(t)

	assert.Equal(t, storage.DefaultMountRoot, cfg.Storage.MountRoot)
	assert.Equal(t, "dryer-data", cfg.Blob.Bucket)
	assert.Equal(t, "Meta/Models/new_models", cfg.Blob.Prefix)
	assert.Equal(t, "predict_drying_time.sklearn", cfg.Models.DryingTime)
	assert.Equal(t, "predict_distribution.tensorflow", cfg.Models.Distribution)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Greater(t, cfg.Server.RateLimit, 0.0)
}

func TestHomeOverridesMountRoot(t *testing.T) {
	tmpDir := t.TempDir()
	os.Setenv("DRYERD_HOME", tmpDir)
	defer os.Unsetenv("DRYERD_HOME")

	cfg := initTestConfig(t)
	assert.Equal(t, tmpDir, cfg.Storage.MountRoot)
}

func TestEnvOverrides(t *testing.T) {
	os.Setenv("DRYERD_BLOB_BUCKET", "other-bucket")
	os.Setenv("DRYERD_SERVER_ADDR", ":9090")
	defer os.Unsetenv("DRYERD_BLOB_BUCKET")
	defer os.Unsetenv("DRYERD_SERVER_ADDR")

	cfg := initTestConfig(t)
	assert.Equal(t, "other-bucket", cfg.Blob.Bucket)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestGetPanicsWhenUninitialized(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	assert.Panics(t, func() { Get() })
	assert.Panics(t, func() { GetViper() })
}
