// Package config loads toonctl's optional .toonctl.yml settings file:
// default indent width, output format, and severity threshold, in the
// teacher's viper-backed Load pattern.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds toonctl's user-configurable defaults.
type Config struct {
	IndentWidth  int    `mapstructure:"indent_width"`
	OutputFormat string `mapstructure:"output_format"`
	MinSeverity  string `mapstructure:"min_severity"`
}

// Load reads .toonctl.yml (or .toonctl.yaml) from the current directory,
// falling back to defaults when no file is present.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("indent_width", 2)
	v.SetDefault("output_format", "text")
	v.SetDefault("min_severity", "error")

	v.SetConfigName(".toonctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvPrefix("TOONCTL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read .toonctl.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal toonctl config: %w", err)
	}
	if cfg.IndentWidth < 1 || cfg.IndentWidth > 8 {
		return nil, fmt.Errorf("indent_width must be between 1 and 8, got %d", cfg.IndentWidth)
	}
	return &cfg, nil
}
