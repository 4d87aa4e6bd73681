package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.toml")

	cfg, err := loadConfig(path, false)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("loadConfig() = %+v, want defaults", cfg)
	}

	if _, err := loadConfig(path, true); err == nil {
		t.Error("loadConfig(required) should fail for a missing file")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[draw]
space = 2
atom_marker = "*"

[cache]
backend = "redis"
ttl = "1h"

[server]
dir = "/srv/trees"
`)

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	def := DefaultConfig()
	if cfg.Draw.Space != 2 || cfg.Draw.AtomMarker != "*" || !cfg.Draw.ShowLevel {
		t.Errorf("Draw = %+v", cfg.Draw)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.RedisAddr != def.Cache.RedisAddr {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Dir != "/srv/trees" || cfg.Server.Addr != def.Server.Addr {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if ttl, _ := cfg.cacheTTL(); ttl != time.Hour {
		t.Errorf("cacheTTL() = %v, want 1h", ttl)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[draw\nspace = 2"},
		{"space", "[draw]\nspace = 0"},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"ttl", "[cache]\nttl = \"soon\""},
		{"negative ttl", "[cache]\nttl = \"-1h\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, tt.content), true); err == nil {
				t.Error("loadConfig() should fail")
			}
		})
	}
}

func TestDrawFlagsOptions(t *testing.T) {
	cfg := DrawConfig{Space: 4, AtomMarker: "#", ShowLevel: true}

	opts := (&drawFlags{}).options(cfg, "t.yaml")
	if opts.Path != "t.yaml" || opts.Space != 4 || opts.AtomMarker != "#" || opts.HideLevel {
		t.Errorf("config only: %+v", opts)
	}

	opts = (&drawFlags{root: "x", space: 1, marker: "*", noLevel: true}).options(cfg, "t.yaml")
	if opts.Root != "x" || opts.Space != 1 || opts.AtomMarker != "*" || !opts.HideLevel {
		t.Errorf("flags over config: %+v", opts)
	}

	cfg.ShowLevel = false
	if opts := (&drawFlags{}).options(cfg, "t.yaml"); !opts.HideLevel {
		t.Error("show_level = false should hide the level header")
	}
}
