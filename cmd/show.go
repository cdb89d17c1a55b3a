package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/cukereport/internal/output"
	"github.com/eykd/cukereport/internal/render"
	"github.com/eykd/cukereport/internal/report"
)

// ShowReader reads a report file for the show command.
type ShowReader interface {
	ReadReport(ctx context.Context, path string) (*report.Report, error)
}

// NewShowCmd creates the show subcommand.
func NewShowCmd(reader ShowReader) *cobra.Command {
	var (
		hooks bool
		color bool
	)

	cmd := &cobra.Command{
		Use:          "show <report.json>",
		Short:        "Print a report file as a table",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := reader.ReadReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Table(r, render.TableOptions{
				Title:     filepath.Base(args[0]),
				ShowHooks: hooks,
				Color:     color,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&hooks, "hooks", false, "Include hook steps")
	cmd.Flags().BoolVar(&color, "color", false, "Color step statuses")

	return cmd
}

// fileShowReader implements ShowReader using OS file I/O.
type fileShowReader struct{}

func newDefaultShowReader() *fileShowReader {
	return &fileShowReader{}
}

func (r *fileShowReader) ReadReport(_ context.Context, path string) (*report.Report, error) {
	return output.ReadReport(path)
}
