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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "school_db_final", cfg.Store.Key)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Redis.DB)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.SeedDemo)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SEED_DEMO", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.Timeout)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedDemo)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_KEY=roster_test\n"), 0o600))
	// t.Setenv restores STORE_KEY afterwards; godotenv only fills unset variables
	t.Setenv("STORE_KEY", "")
	require.NoError(t, os.Unsetenv("STORE_KEY"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "roster_test", cfg.Store.Key)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
