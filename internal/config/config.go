// Package config handles blendtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Runtime RuntimeConfig `yaml:"runtime"`
	Bench   BenchConfig   `yaml:"bench"`
	Logging LoggingConfig `yaml:"logging"`
}

// RuntimeConfig holds evaluation settings.
type RuntimeConfig struct {
	Workers int `yaml:"workers"` // Worker pool size for parallel instance ticks
	// DefaultWeightSpeed applies to assets that do not set
	// target_weight_interpolation_speed themselves.
	DefaultWeightSpeed float32 `yaml:"default_weight_speed"`
	RebuildOnLoad      bool    `yaml:"rebuild_on_load"` // Ignore stored grids and triangulate again
}

// BenchConfig holds settings for the bench command.
type BenchConfig struct {
	Instances int     `yaml:"instances"`
	Frames    int     `yaml:"frames"`
	FrameRate float32 `yaml:"frame_rate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Workers:            4,
			DefaultWeightSpeed: 0,
			RebuildOnLoad:      false,
		},
		Bench: BenchConfig{
			Instances: 256,
			Frames:    600,
			FrameRate: 60,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
