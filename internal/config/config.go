// Package config loads editor settings from the environment, an optional
// .env file and an optional YAML overlay.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
	"github.com/Apoorv-2711/bitespeed/pkg/validation"
)

// Environment variable names
const (
	EnvEnvironment     = "BITESPEED_ENV"
	EnvConfigFile      = "BITESPEED_CONFIG"
	EnvLogLevel        = "LOG_LEVEL"
	EnvNoticeDuration  = "NOTICE_DURATION"
	EnvDefaultNodeType = "DEFAULT_NODE_TYPE"
	EnvFlowName        = "FLOW_NAME"
)

// Config holds the editor configuration
type Config struct {
	Environment     string        `yaml:"environment" validate:"oneof=development production test"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	NoticeDuration  time.Duration `yaml:"notice_duration" validate:"gt=0"`
	DefaultNodeType flow.NodeType `yaml:"default_node_type" validate:"node_type"`
	FlowName        string        `yaml:"flow_name" validate:"max=200"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Environment:     "development",
		LogLevel:        "info",
		NoticeDuration:  3 * time.Second,
		DefaultNodeType: flow.NodeTypeTextMessage,
		FlowName:        "Untitled flow",
	}
}

// Load reads configuration in increasing priority: defaults, .env files,
// environment variables, then the YAML file named by BITESPEED_CONFIG.
// Missing .env files are skipped and real environment variables win over
// them; a malformed .env file or an unparsable duration is an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	def := Default()
	noticeDuration, err := getEnvAsDuration(EnvNoticeDuration, def.NoticeDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg := &Config{
		Environment:     getEnvWithDefault(EnvEnvironment, def.Environment),
		LogLevel:        getEnvWithDefault(EnvLogLevel, def.LogLevel),
		NoticeDuration:  noticeDuration,
		DefaultNodeType: flow.NodeType(getEnvWithDefault(EnvDefaultNodeType, string(def.DefaultNodeType))),
		FlowName:        getEnvWithDefault(EnvFlowName, def.FlowName),
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// overlayFile replaces every field the YAML file sets.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateWithPlayground(c)
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions for environment variable parsing

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
