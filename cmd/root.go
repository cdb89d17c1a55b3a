// Package cmd implements the cukereport CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cukereport command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cukereport",
		Short:         "cukereport - build Cucumber JSON reports from test lifecycle events",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "Log format: text or json")

	root.AddCommand(NewReplayCmd(newDefaultReplayIO()))
	root.AddCommand(NewShowCmd(newDefaultShowReader()))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
