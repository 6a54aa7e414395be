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
		"FICHAS_BACKEND", "FICHAS_URL", "FICHAS_REGISTRY_URL", "FICHAS_PROCESS_URL",
		"FICHAS_WORKBOOK", "FICHAS_ADDR", "FICHAS_TZ", "FICHAS_JOURNAL",
		"FICHAS_LOG_LEVEL", "FICHAS_MAX_RETRIES",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "disconnected", cfg.Backend.Mode)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, "IMPRESSAO", cfg.Backend.Workbook.PrintSheet)
	assert.Equal(t, 30*time.Second, cfg.GetBackendTimeout())

	cfg.Timezone = "UTC"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "fichas.yaml")

	cfg := DefaultConfig()
	cfg.Backend.Mode = "workbook"
	cfg.Backend.Workbook.Path = "/data/fichas.xlsx"
	cfg.Journal.Path = "/data/journal.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fichas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  mode: fixture\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fixture", cfg.Backend.Mode)
	assert.Equal(t, "FICHAS", cfg.Backend.Workbook.FichasSheet)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fichas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FICHAS_BACKEND", "remote")
	t.Setenv("FICHAS_URL", "https://script.example/fichas")
	t.Setenv("FICHAS_REGISTRY_URL", "https://script.example/registry")
	t.Setenv("FICHAS_PROCESS_URL", "https://script.example/process")
	t.Setenv("FICHAS_ADDR", ":9090")
	t.Setenv("FICHAS_TZ", "UTC")
	t.Setenv("FICHAS_JOURNAL", "journal.db")
	t.Setenv("FICHAS_LOG_LEVEL", "debug")
	t.Setenv("FICHAS_MAX_RETRIES", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.Backend.Mode)
	assert.Equal(t, "https://script.example/fichas", cfg.Backend.FichasURL)
	assert.Equal(t, "https://script.example/registry", cfg.Backend.RegistryURL)
	assert.Equal(t, "https://script.example/process", cfg.Backend.ProcessURL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "journal.db", cfg.Journal.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Backend.MaxRetries)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"fixture", func(c *Config) { c.Backend.Mode = "fixture" }, false},
		{"unknown mode", func(c *Config) { c.Backend.Mode = "carrier-pigeon" }, true},
		{"remote without urls", func(c *Config) { c.Backend.Mode = "remote" }, true},
		{"workbook without path", func(c *Config) { c.Backend.Mode = "workbook" }, true},
		{"negative retries", func(c *Config) { c.Backend.MaxRetries = -1 }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Timezone = "UTC"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.Timeout = "garbage"
	cfg.Server.ShutdownTimeout = "3s"
	assert.Equal(t, 30*time.Second, cfg.GetBackendTimeout())
	assert.Equal(t, 3*time.Second, cfg.GetShutdownTimeout())
}
