// Package config handles meshkit configuration loading and management.
package config

import (
	"github.com/Faultbox/meshkit/internal/combine"
)

// Config holds all meshkit settings.
type Config struct {
	Combine combine.Settings      `yaml:"combine" toml:"combine"`
	Shader  combine.PropertyTable `yaml:"shader" toml:"shader"`
	Output  OutputConfig          `yaml:"output" toml:"output"`
	Watch   WatchConfig           `yaml:"watch" toml:"watch"`
	Logging LoggingConfig         `yaml:"logging" toml:"logging"`
}

// OutputConfig holds where combine results go.
type OutputConfig struct {
	Dir      string `yaml:"dir" toml:"dir"`           // mesh files
	Manifest string `yaml:"manifest" toml:"manifest"` // empty: next to the scene
	Atlas    string `yaml:"atlas" toml:"atlas"`       // overrides the scene's atlas file
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Combine: combine.DefaultSettings(),
		Shader:  *combine.DefaultProperties(),
		Output: OutputConfig{
			Dir: "out",
		},
		Watch: WatchConfig{
			DebounceMS: 300,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
