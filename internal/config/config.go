// Package config loads the application configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nordfjell/anbud/internal/gateway/postgres"
)

// Gateway backend names accepted in the configuration file.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the top level application configuration.
type Config struct {
	Gateway  GatewayConfig `yaml:"gateway"`
	Session  SessionConfig `yaml:"session"`
	LogLevel string        `yaml:"log_level"`
}

// GatewayConfig selects and configures the remote gateway backend.
type GatewayConfig struct {
	Backend    string              `yaml:"backend"`
	SQLitePath string              `yaml:"sqlite_path"`
	Postgres   postgres.PoolConfig `yaml:"postgres"`
}

// SessionConfig configures session token verification.
type SessionConfig struct {
	Secret string `yaml:"secret"`
}

// Load reads and validates the configuration file at path. A missing path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyDefaults fills in sensible defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Gateway.Backend == "" {
		c.Gateway.Backend = BackendMemory
	}
	if c.Gateway.Backend == BackendSQLite && c.Gateway.SQLitePath == "" {
		c.Gateway.SQLitePath = "anbud.db"
	}
	if c.Gateway.Backend == BackendPostgres {
		c.Gateway.Postgres.ApplyDefaults()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	switch c.Gateway.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if err := c.Gateway.Postgres.Validate(); err != nil {
			return fmt.Errorf("invalid postgres configuration: %w", err)
		}
	default:
		return fmt.Errorf("unknown gateway backend: %s", c.Gateway.Backend)
	}

	return nil
}
