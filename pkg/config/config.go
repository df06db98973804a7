// Package config handles configuration for flowpilot.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the workspace configuration (config.yaml).
type Config struct {
	// Execution engine
	EngineURL string `yaml:"engineURL"` // Base URL of the execution engine

	// Element picker
	PickerURL   string `yaml:"pickerURL"`   // Base URL of the picker service; empty means local capture
	LocalPicker bool   `yaml:"localPicker"` // Force local headless-browser capture
	Viewport    struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"viewport"`

	// User data for {{user.key}} placeholders
	UserData map[string]string `yaml:"userData"`

	// Paths
	StatePath string `yaml:"statePath"` // Persisted collection; default <home>/state/workflow.json
	LogPath   string `yaml:"logPath"`   // Log file; empty logs to stderr

	Debug bool `yaml:"debug"`
}

// Defaults applied when the config file omits a value.
const (
	DefaultEngineURL = "http://localhost:8000"
)

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return defaults
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.EngineURL == "" {
		c.EngineURL = DefaultEngineURL
	}
	if c.StatePath == "" {
		c.StatePath = filepath.Join(GetStateDir(), "workflow.json")
	}
}
