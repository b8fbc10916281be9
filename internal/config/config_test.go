package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadHeaderTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data/adopit.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TTL)
	assert.Equal(t, 10.0, cfg.Auth.LoginRate)
	assert.True(t, cfg.Seed.DemoData)
	assert.False(t, cfg.Seed.AllowReset)
	assert.True(t, cfg.DevMode())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADOPIT_STORAGE_DRIVER", "redis")
	t.Setenv("ADOPIT_STORAGE_REDIS_ADDR", "cache:6380")
	t.Setenv("ADOPIT_STORAGE_REDIS_DB", "3")
	t.Setenv("ADOPIT_AUTH_SECRET", "s3cret")
	t.Setenv("ADOPIT_AUTH_TTL", "90m")
	t.Setenv("ADOPIT_AUTH_LOGINBURST", "3")
	t.Setenv("ADOPIT_SEED_ALLOWRESET", "true")
	t.Setenv("ADOPIT_HTTP_READHEADERTIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 3, cfg.Storage.Redis.DB)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TTL)
	assert.Equal(t, 3, cfg.Auth.LoginBurst)
	assert.True(t, cfg.Seed.AllowReset)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadHeaderTimeout)
	assert.False(t, cfg.DevMode())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adopit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env:
  logLevel: debug
storage:
  driver: memory
seed:
  demoData: false
http:
  addr: ":9090"
`), 0o600))

	t.Setenv("ADOPIT_HTTP_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Env.LogLevel)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Seed.DemoData)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("ADOPIT_STORAGE_DRIVER", "cassandra")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("ADOPIT_STORAGE_DRIVER", "postgres")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"auth": map[string]any{"loginRate": 10.0, "bcryptCost": 10},
		"storage": map[string]any{
			"sqlite": map[string]any{"path": ""},
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{"AUTH_LOGINRATE", "auth.loginRate"},
		{"AUTH_BCRYPTCOST", "auth.bcryptCost"},
		{"STORAGE_SQLITE_PATH", "storage.sqlite.path"},
		{"NEW_FLAG", "new.flag"},
	}
	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}
