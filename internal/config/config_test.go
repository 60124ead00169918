package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Cache {
		t.Error("cache should default to enabled")
	}
	if cfg.CacheTTLHours != 6 {
		t.Errorf("CacheTTLHours = %d, want 6", cfg.CacheTTLHours)
	}
	if cfg.GeoProxyIP != "" {
		t.Errorf("GeoProxyIP = %q, want empty", cfg.GeoProxyIP)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid geo ip", func(c *Config) { c.GeoProxyIP = "193.15.0.1" }, false},
		{"valid ipv6", func(c *Config) { c.GeoProxyIP = "2001:db8::1" }, false},
		{"bad geo ip", func(c *Config) { c.GeoProxyIP = "not-an-ip" }, true},
		{"negative ttl", func(c *Config) { c.CacheTTLHours = -1 }, true},
		{"zero ttl", func(c *Config) { c.CacheTTLHours = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnmarshal(t *testing.T) {
	data := `
user_agent = "custom-agent/1.0"
geo_proxy_ip = "193.15.0.1"
cache = false
cache_ttl_hours = 24
debug = true
`
	cfg := Default()
	if err := toml.Unmarshal([]byte(data), cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.UserAgent != "custom-agent/1.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.GeoProxyIP != "193.15.0.1" {
		t.Errorf("GeoProxyIP = %q", cfg.GeoProxyIP)
	}
	if cfg.Cache {
		t.Error("cache should be disabled")
	}
	if cfg.CacheTTLHours != 24 {
		t.Errorf("CacheTTLHours = %d, want 24", cfg.CacheTTLHours)
	}
	if !cfg.Debug {
		t.Error("debug should be enabled")
	}
}

func TestConfigPathRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", "svtdl", "config.toml")
	if path != want {
		t.Errorf("ConfigPath = %q, want %q", path, want)
	}
}

func TestDefaultCachePathRespectsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data-test")

	path, err := DefaultCachePath()
	if err != nil {
		t.Fatalf("DefaultCachePath: %v", err)
	}
	want := filepath.Join("/tmp/xdg-data-test", "svtdl", "cache.db")
	if path != want {
		t.Errorf("DefaultCachePath = %q, want %q", path, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with no file: %v", err)
	}
	if cfg.CacheTTLHours != 6 {
		t.Errorf("missing file should yield defaults, got TTL %d", cfg.CacheTTLHours)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "svtdl", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`geo_proxy_ip = "not-an-ip"`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an invalid geo_proxy_ip")
	}
}
