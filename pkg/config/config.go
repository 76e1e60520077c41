// Package config loads the loreatlas TOML configuration file.
//
// The file is optional: a missing file yields the defaults, and every
// field has a sensible zero-config value so the CLI works out of the box
// with a file-backed overlay store and a local locations file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mhagen/loreatlas/pkg/errors"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config is the application configuration.
type Config struct {
	// Seed is the default layout seed used when no overlay record exists.
	Seed uint64 `toml:"seed"`

	Store   StoreConfig   `toml:"store"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
	Display DisplayConfig `toml:"display"`
}

// StoreConfig selects and scopes the overlay store backend.
type StoreConfig struct {
	// Backend is one of "file", "redis", "memory".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`
}

// RedisConfig configures the redis overlay store backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the MongoDB location source.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DisplayConfig sets default display-surface dimensions for the scene
// server's fitted exports.
type DisplayConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Default returns the zero-config defaults.
func Default() Config {
	return Config{
		Store:   StoreConfig{Backend: StoreFile},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Display: DisplayConfig{Width: 800, Height: 600},
	}
}

// DefaultPath returns ~/.config/loreatlas/config.toml, or empty if the
// home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "loreatlas", "config.toml")
}

// Load reads the config file at path, falling back to defaults when the
// path is empty or the file does not exist. Invalid TOML is an error; a
// missing file is not.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Store.Backend {
	case StoreFile, StoreRedis, StoreMemory, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend: %q (must be one of: file, redis, memory)", cfg.Store.Backend)
	}
	return nil
}
