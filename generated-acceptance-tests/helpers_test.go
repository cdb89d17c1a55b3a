package acceptance_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eykd/cukereport/cmd"
	"github.com/eykd/cukereport/internal/output"
	"github.com/eykd/cukereport/internal/report"
)

// event is one line of a JSON-lines event file.
type event struct {
	Kind   string `json:"kind"`
	CID    string `json:"cid,omitempty"`
	Params any    `json:"params,omitempty"`
}

// eventFile is an event file written into the replay's temp dir.
type eventFile struct {
	name    string
	content string
}

func jsonLines(t *testing.T, name string, evs ...event) eventFile {
	t.Helper()
	var b strings.Builder
	for _, ev := range evs {
		data, err := json.Marshal(ev)
		require.NoError(t, err)
		b.Write(data)
		b.WriteByte('\n')
	}
	return eventFile{name: name, content: b.String()}
}

func featureStarted(cid, id, name string) event {
	return event{Kind: "feature-started", CID: cid, Params: report.FeatureParams{ID: id, Name: name, Keyword: "Feature"}}
}

func scenarioStarted(cid, featureID, id, name string) event {
	return event{Kind: "scenario-started", CID: cid, Params: report.ScenarioParams{ParentID: featureID, ID: id, Name: name}}
}

func stepFinished(cid, scenarioID, id, name string, args ...string) event {
	return event{Kind: "step-finished", CID: cid, Params: report.StepParams{
		ParentID: scenarioID, ID: id, Name: name, Arguments: args,
		Result: report.Result{Status: "passed"},
	}}
}

func hookFinished(cid, scenarioID, id string) event {
	return event{Kind: "hook-finished", CID: cid, Params: report.HookParams{
		ParentID: scenarioID, ID: id, Keyword: "Before",
		Result: report.Result{Status: "passed"},
	}}
}

func runMetadata(cid, browser, device string) event {
	return event{Kind: "run-metadata", CID: cid, Params: report.MetaParams{Browser: browser, DeviceName: device}}
}

func scenarioFinished(cid, featureID, id string) event {
	return event{Kind: "scenario-finished", CID: cid, Params: report.ScenarioRef{ParentID: featureID, ID: id}}
}

func runFinished() event {
	return event{Kind: "run-finished"}
}

// replayResult is the outcome of one `cukereport replay --json` run.
type replayResult struct {
	err     error
	stdout  string
	reports map[string]*report.Report
	paths   map[string]string

	Diagnostics []struct {
		Severity string `json:"severity"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"diagnostics"`
	Reports []struct {
		CID  string `json:"cid"`
		Path string `json:"path"`
	} `json:"reports"`
}

// replay runs the cukereport CLI over files in a temp dir and loads every
// report it lists.
func replay(t *testing.T, flags []string, files ...eventFile) *replayResult {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	args := []string{"replay", "--json", "--log-level", "error", "--output-dir", filepath.Join(dir, "reports")}
	args = append(args, flags...)
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		require.NoError(t, os.WriteFile(path, []byte(f.content), 0o644))
		args = append(args, path)
	}

	root := cmd.NewRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	res := &replayResult{reports: map[string]*report.Report{}, paths: map[string]string{}}
	res.err = root.Execute()
	res.stdout = stdout.String()
	require.NoError(t, json.Unmarshal(stdout.Bytes(), res), "replay output: %s", res.stdout)

	for _, e := range res.Reports {
		r, err := output.ReadReport(e.Path)
		require.NoError(t, err)
		res.reports[e.CID] = r
		res.paths[e.CID] = e.Path
	}
	return res
}

// onlyScenario returns the single scenario of r's single feature.
func onlyScenario(t *testing.T, r *report.Report) *report.Scenario {
	t.Helper()
	require.Len(t, r.Features, 1)
	require.Len(t, r.Features[0].Elements, 1)
	return r.Features[0].Elements[0]
}
