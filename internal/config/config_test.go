package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/winmix-match-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	// Minimal YAML; secrets will come from ENV
	yaml := `
app:
  name: winmix-match-service
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")
	t.Setenv("APP_RATE_LIMIT_API_LIMIT", "250")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, "rfc3339", cfg.Logger.TimeFormat)

	// untouched sections fall back to defaults
	assert.Equal(t, "postgres", cfg.Source.Driver)
	assert.Equal(t, 250, cfg.RateLimit.APILimit)
	assert.Equal(t, 10, cfg.RateLimit.StrictLimit)
	assert.Equal(t, 60, cfg.RateLimit.Window)
	assert.Equal(t, "memory", cfg.RateLimit.Store)
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	yaml := `
app:
  name: abc
  version: 0.0.0
  env: test
  port: 18080

postgres:
  host: localhost
  port: 5432
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")
	t.Setenv("APP_POSTGRES_URL", "")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_URLReplacesDiscreteFields(t *testing.T) {
	yaml := `
app:
  env: test
  port: 8080
postgres:
  url: postgres://u:p@db:5432/matches?sslmode=disable
`
	path := writeTempConfig(t, yaml)
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/matches?sslmode=disable", cfg.Postgres.URL)
}

func TestConfigLoad_RESTDriver(t *testing.T) {
	yaml := `
app:
  env: test
  port: 8080
source:
  driver: rest
rest:
  base_url: https://example.supabase.co
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_REST_API_KEY", "")
	_, err := config.Load(path)
	assert.Error(t, err, "api key is required for the rest driver")

	t.Setenv("APP_REST_API_KEY", "anon-key")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "anon-key", cfg.REST.APIKey)
	assert.Equal(t, "matches", cfg.REST.Table)
	assert.Equal(t, 1000, cfg.REST.PageSize)
}

func TestConfigLoad_RedisStoreNeedsAddr(t *testing.T) {
	yaml := `
app:
  env: test
  port: 8080
postgres:
  url: postgres://u:p@db:5432/matches
rate_limit:
  store: redis
redis:
  addr: ""
`
	path := writeTempConfig(t, yaml)
	t.Setenv("APP_REDIS_ADDR", "")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
