// Package config loads evdash settings.
//
// Settings are layered: built-in defaults, then an optional config file
// (TOML or YAML, chosen by extension), then EVDASH_* environment variables.
// Nested keys in environment variables are separated by a double
// underscore, so EVDASH_SERVER__ADDR sets server.addr.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/evdash/pkg/errors"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "EVDASH_"

// Config is the top-level evdash configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Data   DataConfig   `koanf:"data"`
	Cache  CacheConfig  `koanf:"cache"`
	Tree   TreeConfig   `koanf:"tree"`
	Map    MapConfig    `koanf:"map"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig configures `evdash serve`.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	ImageDir        string        `koanf:"image_dir"`
	ImageBase       string        `koanf:"image_base"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DataConfig names the data sources. Stations may be a path or a URL.
type DataConfig struct {
	Stations string `koanf:"stations"`
	Vehicles string `koanf:"vehicles"`
	Sales    string `koanf:"sales"`
}

// CacheConfig selects the cache backend for remote station documents.
type CacheConfig struct {
	Backend  string        `koanf:"backend"`
	Dir      string        `koanf:"dir"`
	RedisURL string        `koanf:"redis_url"`
	TTL      time.Duration `koanf:"ttl"`
}

// TreeConfig sizes the vehicle tree diagram.
type TreeConfig struct {
	Width     float64       `koanf:"width"`
	Height    float64       `koanf:"height"`
	DepthStep float64       `koanf:"depth_step"`
	Duration  time.Duration `koanf:"duration"`
}

// MapConfig sets the initial map view.
type MapConfig struct {
	CenterLat float64 `koanf:"center_lat"`
	CenterLng float64 `koanf:"center_lng"`
	Zoom      int     `koanf:"zoom"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			AllowedOrigins:  []string{"*"},
			ImageBase:       "/img",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     24 * time.Hour,
		},
		Tree: TreeConfig{
			Width:     1000,
			Height:    600,
			DepthStep: 180,
			Duration:  750 * time.Millisecond,
		},
		Map: MapConfig{
			CenterLat: 39.8333333,
			CenterLng: -98.585522,
			Zoom:      4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file at path, if any, and overlays environment variables.
// An empty path skips the file layer; a named file that does not exist is
// an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
		}
		p, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps EVDASH_CACHE__REDIS_URL to cache.redis_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml or .yaml)", filepath.Ext(path))
	}
}

var validBackends = map[string]bool{"file": true, "redis": true, "none": true}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if !validBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache.backend %q: must be one of file, redis, none", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be non-negative")
	}
	if c.Tree.Width <= 0 || c.Tree.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tree.width and tree.height must be positive")
	}
	if c.Tree.DepthStep < 0 || c.Tree.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tree.depth_step and tree.duration must be non-negative")
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLng < -180 || c.Map.CenterLng > 180 {
		return errors.New(errors.ErrCodeInvalidConfig, "map center %.4f,%.4f is out of range", c.Map.CenterLat, c.Map.CenterLng)
	}
	if c.Map.Zoom < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "map.zoom must be non-negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log.level %q", c.Log.Level)
	}
	return nil
}
