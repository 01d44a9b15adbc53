// Package config handles YAML config file loading for the paragrep CLI.
package config

import (
	"fmt"

	"github.com/paragrep-io/paragrep/types"
)

// Config represents a paragrep.yaml configuration file.
// All values are optional and act as defaults for the scan invocation.
// Positional arguments and CLI flags always override config values.
// Environment variables are never consulted.
type Config struct {
	// Workers is the default worker count when the positional argument
	// is omitted.
	Workers int `yaml:"workers"`
	// Logfile is the default chunk-log path when the positional argument
	// is omitted.
	Logfile string `yaml:"logfile"`
	// Notify configures optional scan-completed notifications.
	Notify NotifyConfig `yaml:"notify"`
}

// NotifyConfig holds notification adapter defaults.
type NotifyConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
	Redis   RedisConfig   `yaml:"redis"`
}

// WebhookConfig holds webhook adapter defaults.
type WebhookConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// RedisConfig holds Redis adapter defaults.
type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

// Validate checks value ranges. Zero values mean "not set" and pass.
func (c *Config) Validate() error {
	if c.Workers < 0 || c.Workers > types.MaxWorkers {
		return fmt.Errorf("config: workers %d out of range [1, %d]", c.Workers, types.MaxWorkers)
	}
	return nil
}
