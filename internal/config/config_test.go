package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "DB_PATH", "SEED_PATH", "DATABASE_URL", "REDIS_URL",
		"CACHE_BACKEND", "CACHE_TTL", "DEFAULT_ALGORITHM", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"MAX_NODES",
	} {
		t.Setenv(k, "")
	}
}

func TestGet(t *testing.T) {
	t.Setenv("CVRP_TEST_KEY", "set")

	assert.Equal(t, "set", Get("CVRP_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("CVRP_TEST_MISSING", "fallback"))
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
cache_backend: redis
redis_url: redis://localhost:6379/0
cache_ttl: 90m
rate_limit_rps: 5
max_nodes: 500
`), 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, 500, cfg.MaxNodes)

	t.Setenv("MAX_NODES", "750")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.MaxNodes)
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "soon")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "")
	t.Setenv("MAX_NODES", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.CacheBackend = "postgres"
	assert.Error(t, cfg.Validate())
	cfg.DatabaseURL = "postgres://localhost/cvrp"
	assert.NoError(t, cfg.Validate())

	cfg.CacheBackend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.RateLimitBurst = -1
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.MaxNodes = -5
	assert.Error(t, cfg.Validate())
}
