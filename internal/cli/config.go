package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/groot/pkg/render/textart"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config holds user-level configuration loaded from
// $XDG_CONFIG_HOME/groot/config.toml. Command-line flags override it.
type Config struct {
	Draw   DrawConfig   `toml:"draw"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// DrawConfig holds text-art defaults.
type DrawConfig struct {
	Space      int    `toml:"space"`
	AtomMarker string `toml:"atom_marker"`
	ShowLevel  bool   `toml:"show_level"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file | redis | none
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"` // Go duration, e.g. "24h"
}

// ServerConfig holds defaults for "groot serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
	Dir  string `toml:"dir"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Draw: DrawConfig{
			Space:      textart.DefaultSpace,
			AtomMarker: textart.DefaultAtomMarker,
			ShowLevel:  true,
		},
		Cache: CacheConfig{
			Backend:   backendFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr: ":8080",
			Dir:  ".",
		},
	}
}

// loadConfig reads the config file at path on top of the defaults. A missing
// file yields the defaults unless required is set.
func loadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Draw.Space < 1 {
		return fmt.Errorf("draw.space must be at least 1, got %d", c.Draw.Space)
	}
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return fmt.Errorf("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if _, err := c.cacheTTL(); err != nil {
		return err
	}
	return nil
}

// cacheTTL parses cache.ttl; an empty value keeps the per-kind defaults.
func (c Config) cacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("cache.ttl: invalid duration %q", c.Cache.TTL)
	}
	return d, nil
}

// configPath returns the config file location using the XDG standard
// (~/.config/groot/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
