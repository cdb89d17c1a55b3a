package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/eykd/cukereport/internal/events"
	"github.com/eykd/cukereport/internal/metrics"
	"github.com/eykd/cukereport/internal/output"
	"github.com/eykd/cukereport/internal/report"
)

// ReplayIO handles I/O for the replay command.
type ReplayIO interface {
	OpenEvents(ctx context.Context, path string) (io.ReadCloser, error)
	WriteReport(ctx context.Context, path string, data []byte) error
	WriteMetrics(ctx context.Context, path string, g prometheus.Gatherer) error
}

// Diagnostic codes reported in --json mode.
const (
	codeConfig = "RPL001" // configuration or logger setup failed
	codeEvents = "RPL002" // an event file could not be read, decoded or applied
	codeWrite  = "RPL003" // a report or metrics file could not be written
)

// replayOutput is the JSON output schema for the replay command.
type replayOutput struct {
	Version     string          `json:"version"`
	RunID       string          `json:"runId,omitempty"`
	Reports     []replayedEntry `json:"reports"`
	Diagnostics []diagnostic    `json:"diagnostics,omitempty"`
}

type replayedEntry struct {
	CID  string `json:"cid"`
	Path string `json:"path"`
}

type diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// replayError tags a failure with its diagnostic code.
type replayError struct {
	code string
	err  error
}

func (e *replayError) Error() string { return e.err.Error() }
func (e *replayError) Unwrap() error { return e.err }

func failed(code string, err error) error {
	return &replayError{code: code, err: err}
}

// NewReplayCmd creates the replay subcommand.
func NewReplayCmd(rio ReplayIO) *cobra.Command {
	return newReplayCmdWithRunID(rio, newRunID)
}

func newRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func newReplayCmdWithRunID(rio ReplayIO, runID func() (string, error)) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:          "replay <events-file>...",
		Short:        "Build Cucumber JSON reports from lifecycle event files",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runReplay(cmd, rio, runID, args)
			if err != nil {
				return emitReplayError(cmd, jsonMode, out, err)
			}

			if jsonMode {
				if err = json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
				return nil
			}
			for _, e := range out.Reports {
				fmt.Fprintln(cmd.OutOrStdout(), e.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output result as JSON")
	cmd.Flags().String("output-dir", "", "Directory for report files (default from config: reports)")
	cmd.Flags().Bool("pretty", true, "Indent JSON report files")
	cmd.Flags().Bool("lenient", false, "Log and skip events whose parent is missing instead of failing")
	cmd.Flags().String("metrics-file", "", "Write run metrics in prometheus text format to this file")

	return cmd
}

// runReplay builds and writes the reports. The returned output lists every
// report written before a failure.
func runReplay(cmd *cobra.Command, rio ReplayIO, runID func() (string, error), args []string) (replayOutput, error) {
	out := replayOutput{Version: "1", Reports: []replayedEntry{}}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return out, failed(codeConfig, err)
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return out, failed(codeConfig, err)
	}
	ctx := cmd.Context()

	id, err := runID()
	if err != nil {
		return out, failed(codeConfig, fmt.Errorf("generating run id: %w", err))
	}
	out.RunID = id

	promReg := prometheus.NewRegistry()
	builder := report.NewBuilder(report.NewRegistry())
	opts := []events.DispatcherOption{
		events.WithLogger(logger.With("run_id", id)),
		events.WithMetrics(metrics.New(promReg)),
	}
	if !cfg.Strict {
		opts = append(opts, events.WithLenient())
	}
	dispatcher := events.NewDispatcher(builder, opts...)

	for _, path := range args {
		if err = replayFile(ctx, rio, dispatcher, path); err != nil {
			return out, failed(codeEvents, err)
		}
	}
	builder.PruneAll()

	writer := output.Writer{Pretty: cfg.Pretty}
	registry := builder.Registry()
	for _, cid := range registry.ContextIDs() {
		snap, _ := registry.Snapshot(cid)
		data, err := writer.Marshal(snap)
		if err != nil {
			return out, failed(codeWrite, fmt.Errorf("context %q: %w", cid, err))
		}
		path := filepath.Join(cfg.OutputDir, output.FileName(cid, id))
		if err = rio.WriteReport(ctx, path, data); err != nil {
			return out, failed(codeWrite, fmt.Errorf("writing report: %w", err))
		}
		logger.InfoContext(ctx, "report written", "cid", cid, "path", path, "features", len(snap.Features))
		out.Reports = append(out.Reports, replayedEntry{CID: cid, Path: path})
	}

	if cfg.MetricsFile != "" {
		if err = rio.WriteMetrics(ctx, cfg.MetricsFile, promReg); err != nil {
			return out, failed(codeWrite, fmt.Errorf("writing metrics: %w", err))
		}
	}
	return out, nil
}

// emitReplayError writes the failure as an error diagnostic in the JSON
// output when jsonMode is set, and returns err so the process exits non-zero.
func emitReplayError(cmd *cobra.Command, jsonMode bool, out replayOutput, err error) error {
	if !jsonMode {
		return err
	}
	code := codeEvents
	var re *replayError
	if errors.As(err, &re) {
		code = re.code
	}
	out.Diagnostics = []diagnostic{{Severity: "error", Code: code, Message: err.Error()}}
	_ = json.NewEncoder(cmd.OutOrStdout()).Encode(out)
	return err
}

// replayFile decodes one event file and applies it.
func replayFile(ctx context.Context, rio ReplayIO, d *events.Dispatcher, path string) error {
	rc, err := rio.OpenEvents(ctx, path)
	if err != nil {
		return fmt.Errorf("reading events: %w", err)
	}
	evs, err := events.Decode(rc, events.FormatForPath(path))
	_ = rc.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err = d.DispatchAll(ctx, evs); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// fileReplayIO implements ReplayIO using OS file I/O.
type fileReplayIO struct{}

func newDefaultReplayIO() *fileReplayIO {
	return &fileReplayIO{}
}

// OpenEvents opens the event file at path.
func (f *fileReplayIO) OpenEvents(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// WriteReport writes a report file atomically.
func (f *fileReplayIO) WriteReport(_ context.Context, path string, data []byte) error {
	return output.WriteFileAtomic(path, data)
}

// WriteMetrics writes the gathered metrics in text exposition format.
func (f *fileReplayIO) WriteMetrics(_ context.Context, path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
