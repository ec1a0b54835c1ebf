package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeConfig(t, `
[server]
http_port = 9090

[scheduling]
timezone = "Europe/Moscow"
slot_step_minutes = 15

[catalog]
source = "http"
url = "http://catalog:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Locking.Driver)
	assert.Equal(t, 15, cfg.Scheduling.SlotStepMinutes)
	assert.Equal(t, "http", cfg.Catalog.Source)

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMC_HTTP_PORT", "7070")
	t.Setenv("SMC_STORAGE_DRIVER", "postgres")
	t.Setenv("SMC_DB_HOST", "db")
	t.Setenv("SMC_METRICS_ENABLED", "false")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=5432")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SMC_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SMC_LOG_LEVEL") })

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown storage driver", content: "[storage]\ndriver = \"mongo\"\n"},
		{name: "unknown timezone", content: "[scheduling]\ntimezone = \"Mars/Olympus\"\n"},
		{name: "zero step", content: "[scheduling]\nslot_step_minutes = 0\n"},
		{name: "http catalog without url", content: "[catalog]\nsource = \"http\"\n"},
		{name: "bad log level", content: "[logs]\nlevel = \"verbose\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_BadEnvInt(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMC_HTTP_PORT", "eighty")

	_, err := Load(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
