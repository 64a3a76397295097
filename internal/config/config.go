// ABOUTME: Readiness tool configuration with environment overrides.
// ABOUTME: JSON config file under XDG config, env vars win over file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/harperreed/readiness/internal/storage"
)

// Default cache parameters for the readiness verdict cache.
const (
	DefaultCacheCapacity   = 128
	DefaultCacheTTLMinutes = 360
)

// Config stores readiness tool configuration. File values can be
// overridden per-invocation through environment variables.
type Config struct {
	// DataDir is the root directory for data storage. Supports ~ expansion.
	// Defaults to ~/.local/share/readiness.
	DataDir string `json:"data_dir,omitempty" env:"READINESS_DATA_DIR"`

	// Locale selects the message template set. Defaults to "en".
	Locale string `json:"locale,omitempty" env:"READINESS_LOCALE"`

	// CacheCapacity bounds the verdict cache entry count.
	CacheCapacity int `json:"cache_capacity,omitempty" env:"READINESS_CACHE_CAPACITY"`

	// CacheTTLMinutes is how long a cached verdict stays fresh.
	CacheTTLMinutes int `json:"cache_ttl_minutes,omitempty" env:"READINESS_CACHE_TTL_MINUTES"`

	// ThresholdsPath points at an optional threshold document. Defaults to
	// thresholds.json next to the config file.
	ThresholdsPath string `json:"thresholds_path,omitempty" env:"READINESS_THRESHOLDS"`

	// MessagesPath points at an optional message template document.
	MessagesPath string `json:"messages_path,omitempty" env:"READINESS_MESSAGES"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLocale returns the configured locale, defaulting to "en".
func (c *Config) GetLocale() string {
	if c.Locale == "" {
		return "en"
	}
	return c.Locale
}

// GetCacheCapacity returns the verdict cache capacity.
func (c *Config) GetCacheCapacity() int {
	if c.CacheCapacity <= 0 {
		return DefaultCacheCapacity
	}
	return c.CacheCapacity
}

// GetCacheTTL returns the verdict cache TTL.
func (c *Config) GetCacheTTL() time.Duration {
	minutes := c.CacheTTLMinutes
	if minutes <= 0 {
		minutes = DefaultCacheTTLMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// GetThresholdsPath returns the threshold document path, defaulting to
// thresholds.json in the config directory.
func (c *Config) GetThresholdsPath() string {
	if c.ThresholdsPath != "" {
		return ExpandPath(c.ThresholdsPath)
	}
	return filepath.Join(configDir(), "thresholds.json")
}

// GetMessagesPath returns the message document path, defaulting to
// messages.json in the config directory.
func (c *Config) GetMessagesPath() string {
	if c.MessagesPath != "" {
		return ExpandPath(c.MessagesPath)
	}
	return filepath.Join(configDir(), "messages.json")
}

// OpenStorage opens the SQLite store under the configured data directory.
func (c *Config) OpenStorage() (storage.Repository, error) {
	dbPath := filepath.Join(c.GetDataDir(), "readiness.db")
	return storage.Open(dbPath)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "readiness")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	return filepath.Join(configDir(), "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(GetConfigPath())
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
