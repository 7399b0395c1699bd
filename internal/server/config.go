package server

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the server configuration, loaded from a TOML file with
// sensible defaults for local development.
type Config struct {
	Listen ListenConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// ListenConfig configures the HTTP listener.
type ListenConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	// Backend is one of "none", "file", or "redis".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	TTL     string `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ParseTTL returns the configured artifact TTL.
func (c CacheConfig) ParseTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	return d, nil
}

// StoreConfig selects and configures the diagram store backend.
type StoreConfig struct {
	// Backend is one of "memory" or "mongo".
	Backend         string `toml:"backend"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// RenderConfig configures rendering defaults.
type RenderConfig struct {
	Scale float64 `toml:"scale"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen: ListenConfig{Addr: "127.0.0.1:8464"},
		Cache:  CacheConfig{Backend: "none"},
		Store: StoreConfig{
			Backend:         "memory",
			MongoDatabase:   "mermaidflow",
			MongoCollection: "diagrams",
		},
		Render: RenderConfig{Scale: 2.0},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Render.Scale <= 0 {
		cfg.Render.Scale = 2.0
	}
	return cfg, nil
}
