// Package config loads cukereport settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eykd/cukereport/internal/logging"
)

// Config holds the settings of one cukereport invocation.
type Config struct {
	OutputDir   string `yaml:"output_dir"`   // directory receiving one JSON file per context
	Pretty      bool   `yaml:"pretty"`       // indent JSON output
	Strict      bool   `yaml:"strict"`       // abort on events with unknown parents
	LogLevel    string `yaml:"log_level"`    // debug | info | warn | error
	LogFormat   string `yaml:"log_format"`   // text | json
	MetricsFile string `yaml:"metrics_file"` // prometheus text exposition written after a run; empty disables
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir: "reports",
		Pretty:    true,
		Strict:    true,
		LogLevel:  "info",
		LogFormat: logging.FormatText,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
