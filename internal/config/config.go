// Package config loads the wayfinder CLI configuration from an optional
// YAML or TOML file, then applies WAYFINDER_* environment overrides.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the CLI configuration.
type Config struct {
	LogLevel string        `yaml:"log_level" toml:"log_level" env:"WAYFINDER_LOG_LEVEL"`
	Tick     time.Duration `yaml:"tick" toml:"tick" env:"WAYFINDER_TICK"`
	Addr     string        `yaml:"addr" toml:"addr" env:"WAYFINDER_ADDR"`
	Store    StoreConfig   `yaml:"store" toml:"store"`
}

// StoreConfig selects where sessions are persisted.
type StoreConfig struct {
	Kind      string        `yaml:"kind" toml:"kind" env:"WAYFINDER_STORE"`
	Path      string        `yaml:"path" toml:"path" env:"WAYFINDER_STORE_PATH"`
	RedisAddr string        `yaml:"redis_addr" toml:"redis_addr" env:"WAYFINDER_REDIS_ADDR"`
	RedisTTL  time.Duration `yaml:"redis_ttl" toml:"redis_ttl" env:"WAYFINDER_REDIS_TTL"`
	// EncryptionKey is a hex encoded AES-256 key. Empty disables encryption.
	EncryptionKey string   `yaml:"encryption_key" toml:"encryption_key" env:"WAYFINDER_ENCRYPTION_KEY"`
	MaskKeys      []string `yaml:"mask_keys" toml:"mask_keys" env:"WAYFINDER_MASK_KEYS" envSeparator:","`
}

// Default is the configuration used when nothing else is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Tick:     time.Second,
		Addr:     "127.0.0.1:8080",
		Store: StoreConfig{
			Kind: StoreMemory,
			Path: filepath.Join(".wayfinder", "sessions"),
		},
	}
}

// Load reads path when it is not empty, applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %s", ErrInvalidConfig, c.Tick)
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: redis store needs redis_addr", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store.Kind)
	}
	if _, err := c.Store.Key(); err != nil {
		return err
	}
	return nil
}

// Key decodes the encryption key. It returns nil when encryption is off.
func (s StoreConfig) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s.EncryptionKey)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("%w: encryption_key must be 64 hex characters", ErrInvalidConfig)
	}
	return key, nil
}
