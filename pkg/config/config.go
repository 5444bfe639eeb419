// Package config provides user-level configuration for autothemeswitcher.
// This configuration is stored in ~/.config/autothemeswitcher/config.yaml
// and contains preferences that outlive a single invocation.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/paths"
)

// CurrentVersion is the current version of the config format
const CurrentVersion = "v1"

// Config represents the user-level autothemeswitcher configuration
type Config struct {
	// Version is the config format version
	Version string `yaml:"version,omitempty"`
	// StorePath overrides the default settings database location
	StorePath string `yaml:"store_path,omitempty"`
	// Workspace is the default workspace directory for `watch` when no
	// argument is given
	Workspace string `yaml:"workspace,omitempty"`
	// Debug enables debug logging without the --debug flag
	Debug bool `yaml:"debug,omitempty"`
}

// Path returns the path to the config file
func Path() string {
	return filepath.Join(paths.GetConfigDir(), "config.yaml")
}

// DefaultStorePath returns the settings database location used when the
// config and flags leave it unset.
func DefaultStorePath() string {
	return filepath.Join(paths.GetDataDir(), "settings.db")
}

// Load loads the user configuration from the config file.
// A missing config file yields a zero config, not an error.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(configPath string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the config file
func (c *Config) Save() error {
	return c.saveTo(Path())
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Ensure version is always set to current version when saving
	c.Version = CurrentVersion

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
