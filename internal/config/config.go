// Package config handles TOML-based configuration loading and
// validation. Config is parsed as data only; defaults apply when the
// file is absent.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	UserAgent     string `toml:"user_agent"`
	GeoProxyIP    string `toml:"geo_proxy_ip"`
	Cache         bool   `toml:"cache"`
	CacheTTLHours int    `toml:"cache_ttl_hours"`
	CachePath     string `toml:"cache_path"`
	Debug         bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		UserAgent:     "",
		GeoProxyIP:    "",
		Cache:         true,
		CacheTTLHours: 6,
		CachePath:     "",
		Debug:         false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "svtdl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "svtdl"), nil
}

// dataDir returns the XDG-compliant data directory.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "svtdl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "svtdl"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultCachePath returns where the resolve cache lives when the
// config does not override it.
func DefaultCachePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// Load reads the config file and merges it over defaults. A missing
// file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.GeoProxyIP != "" && net.ParseIP(c.GeoProxyIP) == nil {
		return fmt.Errorf("geo_proxy_ip %q is not a valid IP address", c.GeoProxyIP)
	}
	if c.CacheTTLHours < 0 {
		return fmt.Errorf("cache_ttl_hours must not be negative, got %d", c.CacheTTLHours)
	}
	return nil
}
