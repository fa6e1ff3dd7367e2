package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Game.CountdownSeconds)
	assert.Equal(t, 30, cfg.Game.TickRate)
	assert.Equal(t, 30*time.Second, cfg.Invite.TTL)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.NotEmpty(t, cfg.Identity.Names)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
server:
  port: 9001
log:
  level: debug
  format: console
game:
  countdown_seconds: 5
  tick_rate: 10
invite:
  ttl: 45s
identity:
  names: [North, South]
storage:
  type: redis
  redis:
    url: redis://cache:6379/1
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9001", cfg.Addr())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Game.CountdownSeconds)
	assert.Equal(t, 10, cfg.Game.TickRate)
	assert.Equal(t, 45*time.Second, cfg.Invite.TTL)
	assert.Equal(t, []string{"North", "South"}, cfg.Identity.Names)
	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.Storage.Redis.URL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("DROPFOUR_SERVER_PORT", "7777")
	t.Setenv("DROPFOUR_STORAGE_TYPE", "memory")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Addr())
	assert.Equal(t, "memory", cfg.Storage.Type)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty name pool", "identity:\n  names: []\n"},
		{"zero tick rate", "game:\n  tick_rate: 0\n"},
		{"negative countdown", "game:\n  countdown_seconds: -1\n"},
		{"zero ttl", "invite:\n  ttl: 0s\n"},
		{"unknown storage", "storage:\n  type: postgres\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tc.yaml), 0o644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
