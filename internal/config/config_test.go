package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"hierarchicalmenu/profilefield/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
server:
  port: 9090
field:
  default_max_levels: 4
  display_mode: cascade
database:
  driver: memory
redis:
  enabled: false
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 4, cfg.Field.DefaultMaxLevels)
	assert.Equal(t, 7, cfg.Field.LabelBudget)
	assert.Equal(t, "cascade", cfg.Field.DisplayMode)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "hierarchicalmenu_repair", cfg.Redis.ConsumerGroup)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, Name: "moodle", User: "u", Password: "p"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=moodle sslmode=disable", cfg.DSN())
}
