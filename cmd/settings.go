package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eykd/cukereport/internal/config"
	"github.com/eykd/cukereport/internal/logging"
)

// resolveConfig loads the --config file (when the flag exists and is set)
// and applies explicitly set flags on top of it.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var path string
	if f := cmd.Flag("config"); f != nil {
		path = f.Value.String()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("pretty") {
		cfg.Pretty, _ = flags.GetBool("pretty")
	}
	if flags.Changed("lenient") {
		lenient, _ := flags.GetBool("lenient")
		cfg.Strict = !lenient
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := cmd.Flag("log-format"); f != nil && f.Changed {
		cfg.LogFormat = f.Value.String()
	}

	if err = cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger installs the process logger writing to the command's stderr.
func newLogger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, error) {
	return logging.Init(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
}
