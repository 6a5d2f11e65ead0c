// Package config loads flowsave settings from a YAML file, a .env file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/flowgraph/flowsave/internal/infrastructure/logger"
	"github.com/flowgraph/flowsave/pkg/validation"
)

// Environment variable names.
const (
	EnvStore    = "FLOWSAVE_STORE"
	EnvDSN      = "FLOWSAVE_DSN"
	EnvRedisURL = "REDIS_URL"
	EnvLogLevel = "FLOWSAVE_LOG_LEVEL"
	EnvCodec    = "FLOWSAVE_CODEC"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StoreConfig selects where save points live.
type StoreConfig struct {
	Driver   string `yaml:"driver" json:"driver" validate:"required,oneof=memory sqlite postgres redis"`
	DSN      string `yaml:"dsn" json:"dsn"`
	RedisURL string `yaml:"redis_url" json:"redis_url"`
	Table    string `yaml:"table" json:"table"`
}

// Config is the full flowsave configuration.
type Config struct {
	Store StoreConfig   `yaml:"store" json:"store"`
	Codec string        `yaml:"codec" json:"codec" validate:"omitempty,oneof=json msgpack"`
	Log   logger.Config `yaml:"log" json:"log"`
}

// Default returns an in-memory, msgpack, info-level configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Driver: DriverMemory},
		Codec: "msgpack",
		Log:   logger.Config{Level: "info", Format: "console", Output: "stderr"},
	}
}

// Load reads path (optional) over the defaults, then the given env files
// (".env" when none are named; a missing file is fine), then the process
// environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Store.RedisURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvCodec); v != "" {
		c.Codec = v
	}
}

// Validate checks the driver and its connection settings.
func (c *Config) Validate() error {
	if err := validation.ValidateWithPlayground(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: %s store needs a dsn", ErrInvalidConfig, c.Store.Driver)
		}
	case DriverRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("%w: redis store needs a redis_url", ErrInvalidConfig)
		}
	}
	return nil
}

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")
