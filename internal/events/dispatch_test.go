package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/cukereport/internal/metrics"
	"github.com/eykd/cukereport/internal/report"
)

func newTestDispatcher(opts ...DispatcherOption) (*Dispatcher, *report.Builder) {
	b := report.NewBuilder(report.NewRegistry(), report.WithHost(report.HostInfo{GOOS: "darwin", Type: "Darwin", Release: "23.1.0"}))
	return NewDispatcher(b, opts...), b
}

func TestDispatchAll_YAMLFixture(t *testing.T) {
	d, b := newTestDispatcher()
	require.NoError(t, d.DispatchAll(context.Background(), decodeFile(t, "testdata/login.yaml")))

	r, ok := b.Registry().Snapshot("0-0")
	require.True(t, ok)
	require.Len(t, r.Features, 1, "empty feature pruned by run-finished")
	f := r.Features[0]
	assert.Equal(t, "login", f.ID)
	require.NotNil(t, f.Metadata)
	assert.Equal(t, "Chrome", f.Metadata.Browser.Version)
	assert.Equal(t, report.Platform{Name: "osx", Version: "Darwin 23.1.0"}, f.Metadata.Platform)

	s := f.Elements[0]
	assert.Equal(t, "Valid login (admin)", s.Name)
	require.Len(t, s.Steps, 2)
	assert.True(t, s.Steps[0].Hidden)
	assert.Equal(t, "step-1", s.Steps[1].ID)
	assert.Equal(t, "image/png", s.Steps[1].Embeddings[0].Media.Type)
}

func TestDispatch_StrictParentNotFound(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	d, _ := newTestDispatcher(WithMetrics(m))

	err := d.Dispatch(context.Background(), Event{Kind: KindStepFinished, CID: "c1", Params: report.StepParams{ParentID: "S1", ID: "x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrParentNotFound)
	assert.Contains(t, err.Error(), "step-finished")

	count, err := testutil.GatherAndCount(reg, "cukereport_event_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDispatch_LenientSkips(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	d, b := newTestDispatcher(WithLenient(), WithLogger(logger))

	err := d.Dispatch(context.Background(), Event{Kind: KindScenarioStarted, CID: "c1", Params: report.ScenarioParams{ParentID: "F1", ID: "S1"}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "event skipped")
	assert.Contains(t, buf.String(), "kind=scenario-started")

	r, _ := b.Registry().Snapshot("c1")
	assert.Empty(t, r.Features)
}

func TestDispatch_CountsAppliedEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, _ := newTestDispatcher(WithMetrics(metrics.New(reg)))
	ctx := context.Background()
	require.NoError(t, d.Dispatch(ctx, Event{Kind: KindFeatureStarted, CID: "c1", Params: report.FeatureParams{ID: "F1"}}))
	require.NoError(t, d.Dispatch(ctx, Event{Kind: KindFeatureStarted, CID: "c2", Params: report.FeatureParams{ID: "F1"}}))

	expected := `
# HELP cukereport_contexts Number of worker contexts with a report
# TYPE cukereport_contexts gauge
cukereport_contexts 2
# HELP cukereport_events_total Count of lifecycle events applied
# TYPE cukereport_events_total counter
cukereport_events_total{kind="feature-started"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "cukereport_events_total", "cukereport_contexts"))
}

func TestDispatch_Invalid(t *testing.T) {
	d, _ := newTestDispatcher(WithLenient())
	ctx := context.Background()

	err := d.Dispatch(ctx, Event{Kind: "bogus", CID: "c1"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	err = d.Dispatch(ctx, Event{Kind: KindStepFinished, CID: "c1", Params: report.HookParams{}})
	assert.ErrorContains(t, err, "do not match kind")
}

func TestDispatchAll_StopsAtFirstError(t *testing.T) {
	d, b := newTestDispatcher()
	evs := []Event{
		{Kind: KindFeatureStarted, CID: "c1", Params: report.FeatureParams{ID: "F1"}},
		{Kind: KindScenarioStarted, CID: "c1", Params: report.ScenarioParams{ParentID: "F2", ID: "S1"}},
		{Kind: KindFeatureStarted, CID: "c1", Params: report.FeatureParams{ID: "F3"}},
	}
	err := d.DispatchAll(context.Background(), evs)
	assert.ErrorContains(t, err, "event 1:")

	r, _ := b.Registry().Snapshot("c1")
	assert.Len(t, r.Features, 1)
}

func TestDispatchAll_Cancelled(t *testing.T) {
	d, b := newTestDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.DispatchAll(ctx, []Event{{Kind: KindFeatureStarted, CID: "c1", Params: report.FeatureParams{ID: "F1"}}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, b.Registry().Len())
}
