package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/evdash/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" || cfg.Cache.Backend != "file" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Tree.Duration != 750*time.Millisecond || cfg.Tree.DepthStep != 180 {
		t.Errorf("tree defaults = %+v", cfg.Tree)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "evdash.toml", `
[server]
addr = ":9000"
allowed_origins = ["https://example.com"]

[data]
stations = "stations.json"

[cache]
backend = "none"
ttl = "1h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Data.Stations != "stations.json" || cfg.Cache.Backend != "none" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("TTL = %v, want 1h", cfg.Cache.TTL)
	}
	// untouched keys keep their defaults
	if cfg.Tree.Width != 1000 {
		t.Errorf("Tree.Width = %v, want default", cfg.Tree.Width)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "evdash.yaml", "map:\n  zoom: 6\nlog:\n  level: debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Map.Zoom != 6 || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "evdash.toml", "[server]\naddr = \":9000\"\n")
	t.Setenv("EVDASH_SERVER__ADDR", ":7000")
	t.Setenv("EVDASH_CACHE__REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("EVDASH_CACHE__BACKEND", "redis")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, env should win over file", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.toml")},
		{"unknown format", writeFile(t, "evdash.ini", "x=1")},
		{"bad toml", writeFile(t, "bad.toml", "[server\naddr=")},
		{"bad backend", writeFile(t, "b.toml", "[cache]\nbackend = \"memcached\"\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"zero width", func(c *Config) { c.Tree.Width = 0 }},
		{"lat out of range", func(c *Config) { c.Map.CenterLat = 95 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
