package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  port: 8080
backend:
  base_url: http://backend.local
jwt:
  secret: 0123456789abcdef0123456789abcdef
`

func TestParse(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(validYAML))
		require.NoError(t, err)

		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, 15*time.Second, cfg.BackendTimeout())
		assert.Equal(t, time.Second, cfg.FollowUpDelay())
		assert.Equal(t, 50, cfg.Notify.FeedSize)
		assert.Equal(t, "America/Sao_Paulo", cfg.Display.Timezone)
		assert.Equal(t, "0 0 11 * * *", cfg.Scheduler.SendPendingDigest)
		assert.False(t, cfg.AuditEnabled())
		assert.Equal(t, ":8080", cfg.GetServerAddress())
	})

	t.Run("Short JWT secret", func(t *testing.T) {
		_, err := Parse([]byte(`
server: {port: 8080}
backend: {base_url: http://backend.local}
jwt: {secret: short}
`))
		assert.Error(t, err)
	})

	t.Run("Redis requires address", func(t *testing.T) {
		_, err := Parse([]byte(validYAML + "cache:\n  type: redis\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis address")
	})

	t.Run("Unknown cache type", func(t *testing.T) {
		_, err := Parse([]byte(validYAML + "cache:\n  type: memcached\n"))
		assert.Error(t, err)
	})

	t.Run("Database defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(validYAML + "database:\n  host: db\n  user: admin\n  database: audit\n"))
		require.NoError(t, err)
		assert.True(t, cfg.AuditEnabled())
		assert.Equal(t, "postgres://admin:@db:5432/audit?sslmode=disable", cfg.GetDatabaseConnectionString())
	})

	t.Run("Env override", func(t *testing.T) {
		t.Setenv("BACKEND_BASE_URL", "https://api.example.com")
		t.Setenv("DIGEST_TO", "a@example.com,b@example.com")
		cfg, err := Parse([]byte(validYAML))
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Mail.DigestTo)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend.local", cfg.Backend.BaseURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
