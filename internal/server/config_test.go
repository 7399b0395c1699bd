package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Listen.Addr != "127.0.0.1:8464" {
		t.Errorf("addr = %q", cfg.Listen.Addr)
	}
	if cfg.Cache.Backend != "none" || cfg.Store.Backend != "memory" {
		t.Errorf("backends = %q/%q, want none/memory", cfg.Cache.Backend, cfg.Store.Backend)
	}
	if cfg.Render.Scale != 2.0 {
		t.Errorf("scale = %v, want 2.0", cfg.Render.Scale)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = "0.0.0.0:9000"

[cache]
backend = "file"
dir = "/tmp/mermaidflow-cache"
ttl = "1h"

[store]
backend = "memory"

[render]
scale = 1.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen.Addr != "0.0.0.0:9000" {
		t.Errorf("addr = %q", cfg.Listen.Addr)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.Dir != "/tmp/mermaidflow-cache" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Render.Scale != 1.5 {
		t.Errorf("scale = %v", cfg.Render.Scale)
	}

	ttl, err := cfg.Cache.ParseTTL()
	if err != nil || ttl != time.Hour {
		t.Errorf("ttl = %v err=%v, want 1h", ttl, err)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \"127.0.0.1:7777\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen.Addr != "127.0.0.1:7777" {
		t.Errorf("addr = %q", cfg.Listen.Addr)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("store backend = %q, want default memory", cfg.Store.Backend)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed file should error")
	}
}

func TestParseTTL(t *testing.T) {
	if ttl, err := (CacheConfig{}).ParseTTL(); err != nil || ttl != 24*time.Hour {
		t.Errorf("default ttl = %v err=%v, want 24h", ttl, err)
	}
	if _, err := (CacheConfig{TTL: "soon"}).ParseTTL(); err == nil {
		t.Error("invalid ttl should error")
	}
}
