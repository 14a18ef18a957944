package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations.
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the tool cannot run with.
func (c *Config) Validate() error {
	if c.Runtime.Workers < 1 {
		return fmt.Errorf("runtime.workers must be at least 1, got %d", c.Runtime.Workers)
	}
	if c.Runtime.DefaultWeightSpeed < 0 {
		return fmt.Errorf("runtime.default_weight_speed must not be negative, got %v", c.Runtime.DefaultWeightSpeed)
	}
	if c.Bench.FrameRate <= 0 {
		return fmt.Errorf("bench.frame_rate must be positive, got %v", c.Bench.FrameRate)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./blendtool.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "BlendTool")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "BlendTool")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "blendtool")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "blendtool")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
