// Package config loads the fichas configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ukaji3/fichas-go/pkg/fichas"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Backend  BackendConfig `yaml:"backend"`
	Timezone string        `yaml:"timezone"`
	Server   ServerConfig  `yaml:"server"`
	Journal  JournalConfig `yaml:"journal"`
	Logging  LoggingConfig `yaml:"logging"`
}

// BackendConfig selects and configures the spreadsheet backend.
type BackendConfig struct {
	Mode string `yaml:"mode"` // remote, workbook, fixture, disconnected

	FichasURL   string `yaml:"fichas_url"`
	RegistryURL string `yaml:"registry_url"`
	ProcessURL  string `yaml:"process_url"`
	Timeout     string `yaml:"timeout"`
	MaxRetries  int    `yaml:"max_retries"`

	Workbook WorkbookConfig `yaml:"workbook"`
}

// WorkbookConfig configures the local workbook backend.
type WorkbookConfig struct {
	Path          string `yaml:"path"`
	FichasSheet   string `yaml:"fichas_sheet"`
	RegistrySheet string `yaml:"registry_sheet"`
	PrintSheet    string `yaml:"print_sheet"`
	PrintURL      string `yaml:"print_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// JournalConfig configures the submission journal. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty means stderr
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Mode:       string(fichas.ModeDisconnected),
			Timeout:    "30s",
			MaxRetries: 2,
			Workbook: WorkbookConfig{
				FichasSheet:   "FICHAS",
				RegistrySheet: "INSPECIONANDOS",
				PrintSheet:    "IMPRESSAO",
			},
		},
		Timezone: fichas.DefaultTimeZone,
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FICHAS_BACKEND"); v != "" {
		c.Backend.Mode = v
	}
	if v := os.Getenv("FICHAS_URL"); v != "" {
		c.Backend.FichasURL = v
	}
	if v := os.Getenv("FICHAS_REGISTRY_URL"); v != "" {
		c.Backend.RegistryURL = v
	}
	if v := os.Getenv("FICHAS_PROCESS_URL"); v != "" {
		c.Backend.ProcessURL = v
	}
	if v := os.Getenv("FICHAS_WORKBOOK"); v != "" {
		c.Backend.Workbook.Path = v
	}
	if v := os.Getenv("FICHAS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FICHAS_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("FICHAS_JOURNAL"); v != "" {
		c.Journal.Path = v
	}
	if v := os.Getenv("FICHAS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FICHAS_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.MaxRetries = n
		}
	}
}

// GetBackendTimeout returns the per-request timeout as a duration.
func (c *Config) GetBackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetShutdownTimeout returns the HTTP graceful shutdown timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	mode, err := fichas.ParseMode(c.Backend.Mode)
	if err != nil {
		return err
	}

	switch mode {
	case fichas.ModeRemote:
		if c.Backend.FichasURL == "" || c.Backend.RegistryURL == "" || c.Backend.ProcessURL == "" {
			return fmt.Errorf("remote backend requires fichas_url, registry_url and process_url (or FICHAS_URL, FICHAS_REGISTRY_URL, FICHAS_PROCESS_URL)")
		}
	case fichas.ModeWorkbook:
		if c.Backend.Workbook.Path == "" {
			return fmt.Errorf("workbook backend requires workbook.path (or FICHAS_WORKBOOK)")
		}
	}

	if c.Backend.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative: %d", c.Backend.MaxRetries)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	return nil
}
