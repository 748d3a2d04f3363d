// Package config loads server configuration. This file holds the
// environment-only configuration used by the standalone binary.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/healthassist-server/internal/domain"
)

// LiteConfig is a simplified configuration for standalone operation.
// It needs no external services: data lives in SQLite and sessions in memory.
type LiteConfig struct {
	DataDir string // Base directory for data files

	HTTPPort int

	SessionTTL        time.Duration
	SessionMaxEntries int
	SecureCookies     bool

	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".healthassist")

	return &LiteConfig{
		DataDir:           dataDir,
		HTTPPort:          3000,
		SessionTTL:        24 * time.Hour,
		SessionMaxEntries: 1000,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	if v := os.Getenv("HEALTHASSIST_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("HEALTHASSIST_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	if v := os.Getenv("HEALTHASSIST_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v := os.Getenv("HEALTHASSIST_SESSION_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionMaxEntries = n
		}
	}
	if v := os.Getenv("HEALTHASSIST_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookies = b
		}
	}

	if v := os.Getenv("HEALTHASSIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HEALTHASSIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

// SQLitePath returns the path to the SQLite database.
func (c *LiteConfig) SQLitePath() string {
	return filepath.Join(c.DataDir, "healthassist.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *LiteConfig) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// Logging returns the logging section in the shape logging.New expects.
func (c *LiteConfig) Logging() domain.LoggingConfig {
	return domain.LoggingConfig{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: "stderr",
	}
}

// Session returns the in-memory session settings.
func (c *LiteConfig) Session() domain.SessionConfig {
	return domain.SessionConfig{
		Backend:    domain.SessionBackendMemory,
		CookieName: "healthassist_session",
		TTL:        c.SessionTTL,
		Secure:     c.SecureCookies,
		MaxEntries: c.SessionMaxEntries,
	}
}

// Config expands the lite settings into a full server configuration backed
// by SQLite and in-memory sessions.
func (c *LiteConfig) Config() *domain.Config {
	return &domain.Config{
		Environment: "standalone",
		Server: domain.ServerConfig{
			Host:           "127.0.0.1",
			Port:           c.HTTPPort,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
		Database: domain.DatabaseConfig{
			Driver:     domain.DriverSQLite,
			SQLitePath: c.SQLitePath(),
		},
		Session: c.Session(),
		Security: domain.SecurityConfig{
			BcryptCost:         10,
			LoginRatePerMinute: 10,
			LoginBurst:         5,
		},
		Notifier: domain.NotifierConfig{
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
		},
		Logging: c.Logging(),
	}
}
