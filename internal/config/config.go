// Package config loads the planforge.yaml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the planforge configuration.
type Config struct {
	Project Project `yaml:"project"`
	Redis   Redis   `yaml:"redis"`
	Events  Events  `yaml:"events"`
	Log     Log     `yaml:"log"`
}

// Project contains project-level settings.
type Project struct {
	Name string `yaml:"name"`
}

// Redis contains the snapshot/activity store settings.
type Redis struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db,omitempty"`
}

// Events contains dispatcher settings for lifecycle events.
type Events struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// Log contains logging settings.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Project: Project{Name: "planforge"},
		Redis:   Redis{Addr: "localhost:6379"},
		Events:  Events{Workers: 2, QueueSize: 64},
		Log:     Log{Level: "info"},
	}
}

// Load reads and parses a planforge.yaml file. Missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault tries to load ./planforge.yaml, falling back to defaults.
func LoadOrDefault() *Config {
	cfg, err := Load(filepath.Join(".", "planforge.yaml"))
	if err != nil {
		return Default()
	}
	return cfg
}

// Save writes the config to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("project.name is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Events.Workers < 1 || c.Events.Workers > 32 {
		return fmt.Errorf("events.workers must be between 1 and 32")
	}
	if c.Events.QueueSize < 1 {
		return fmt.Errorf("events.queue_size must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}
