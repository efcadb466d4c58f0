package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_CONN", "")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", c.ServerAddress)
	require.Equal(t, 12*time.Hour, c.SessionTTL)
	require.Equal(t, "X-Auth-Email", c.AuthUserHeader)
	require.True(t, c.MigrationsOnStart)
	require.Error(t, c.RequirePostgres())
}

func TestLoadFromFile(t *testing.T) {
	// godotenv не перезаписывает уже заданные переменные
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9000")
	os.Unsetenv("OPENAI_MODEL")
	t.Cleanup(func() { os.Unsetenv("OPENAI_MODEL") })

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("OPENAI_MODEL=gpt-test\nSERVER_ADDRESS=ignored:1\n"), 0o600))

	n, err := LoadEnv(file, filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gpt-test", c.OpenAI.Model)
	require.Equal(t, "127.0.0.1:9000", c.ServerAddress)
}

func TestLoadSeedUsers(t *testing.T) {
	t.Setenv("SEED_USERS", "pm@example.com=procurement_manager,ev@example.com=evaluator")
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"pm@example.com": "procurement_manager",
		"ev@example.com": "evaluator",
	}, c.SeedUsers)
}

func TestValidate(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.ErrorContains(t, err, "LOG_FORMAT")
}
