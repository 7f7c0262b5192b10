package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, 10*time.Minute, cfg.Storage.GCInterval.Duration())
	assert.True(t, cfg.Cache.WarmOnStart)
	assert.Equal(t, 256, cfg.Cache.SweepEvery)
	assert.Equal(t, "svcaddr", cfg.Metrics.Namespace)
}

func TestIdentityConfig(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		local, err := DefaultIdentityConfig().Local()
		require.NoError(t, err)
		assert.True(t, local.IsEmpty())
	})

	t.Run("Valid", func(t *testing.T) {
		id := types.NewDurableID()
		cfg := DefaultIdentityConfig().WithLocal(id, "+15550001")

		local, err := cfg.Local()
		require.NoError(t, err)
		assert.Equal(t, id, local.ID)
		assert.Equal(t, types.Alias("+15550001"), local.Alias)
	})

	t.Run("InvalidUUID", func(t *testing.T) {
		cfg := IdentityConfig{LocalUUID: "not-a-uuid"}
		err := cfg.Validate()
		assert.ErrorIs(t, err, types.ErrInvalidDurableID)
	})

	t.Run("InvalidAlias", func(t *testing.T) {
		cfg := IdentityConfig{LocalAlias: "has space"}
		err := cfg.Validate()
		assert.ErrorIs(t, err, types.ErrInvalidAlias)
	})
}

func TestStorageConfig(t *testing.T) {
	cfg := DefaultStorageConfig()
	assert.Equal(t, filepath.Join("./data", "svcaddr.db"), cfg.DBPath())

	cfg.DataDir = ""
	assert.Error(t, cfg.Validate())

	cfg.InMemory = true
	assert.NoError(t, cfg.Validate())
}

func TestLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultLogConfig()
	cfg.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestMetricsConfig(t *testing.T) {
	cfg := DefaultMetricsConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Namespace = "bad-name"
	assert.Error(t, cfg.Validate())
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcaddr.json")
	data := `{
  "storage": {"data_dir": "/var/lib/svcaddr", "gc_interval": "1m"},
  "cache": {"emit_events": false},
  "log": {"level": "debug"}
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/svcaddr", cfg.Storage.DataDir)
	assert.Equal(t, time.Minute, cfg.Storage.GCInterval.Duration())
	assert.False(t, cfg.Cache.EmitEvents)
	assert.Equal(t, "debug", cfg.Log.Level)
	// 未给出的字段保留默认值
	assert.Equal(t, 256, cfg.Cache.SweepEvery)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcaddr.yaml")
	data := `
identity:
  local_alias: "+15550002"
storage:
  in_memory: true
  gc_interval: 30s
metrics:
  enable: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "+15550002", cfg.Identity.LocalAlias)
	assert.True(t, cfg.Storage.InMemory)
	assert.Equal(t, 30*time.Second, cfg.Storage.GCInterval.Duration())
	assert.True(t, cfg.Metrics.Enable)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcaddr.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	id := types.NewDurableID()
	t.Setenv("SVCADDR_LOCAL_UUID", id.String())
	t.Setenv("SVCADDR_DATA_DIR", "/tmp/svcaddr-env")
	t.Setenv("SVCADDR_WARM_ON_START", "false")
	t.Setenv("SVCADDR_LOG_FORMAT", "json")
	t.Setenv("SVCADDR_GC_INTERVAL", "2m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, id.String(), cfg.Identity.LocalUUID)
	assert.Equal(t, "/tmp/svcaddr-env", cfg.Storage.DataDir)
	assert.False(t, cfg.Cache.WarmOnStart)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 2*time.Minute, cfg.Storage.GCInterval.Duration())
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("SVCADDR_IN_MEMORY", "maybe")

	_, err := Load("")
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Storage.DataDir = "/srv/data"
	cfg.Log.Level = "warn"

	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, loaded, name)
	}
}

func TestValidateAndFix(t *testing.T) {
	cfg := &Config{}
	fixed, err := ValidateAndFix(cfg)
	require.NoError(t, err)

	assert.Equal(t, 256, fixed.Cache.SweepEvery)
	assert.Equal(t, "info", fixed.Log.Level)
	assert.Equal(t, "./data", fixed.Storage.DataDir)
}

func TestValidateAll_Nil(t *testing.T) {
	assert.Error(t, ValidateAll(nil))
}
