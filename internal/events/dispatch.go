package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eykd/cukereport/internal/metrics"
	"github.com/eykd/cukereport/internal/report"
)

// Dispatcher routes decoded events to a report.Builder.
type Dispatcher struct {
	builder *report.Builder
	logger  *slog.Logger
	metrics *metrics.Metrics
	strict  bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics records event counts in m.
func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLenient makes Dispatch log and skip events whose parent node is
// missing instead of returning the error.
func WithLenient() DispatcherOption {
	return func(d *Dispatcher) { d.strict = false }
}

// NewDispatcher returns a strict Dispatcher feeding b.
func NewDispatcher(b *report.Builder, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{builder: b, strict: true}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Dispatch applies ev to the builder.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	err := d.apply(ev)
	switch {
	case err == nil:
		d.metrics.RecordEvent(ev.Kind)
		d.metrics.SetContexts(d.builder.Registry().Len())
		d.logger.DebugContext(ctx, "event applied", "kind", ev.Kind, "cid", ev.CID)
		return nil
	case errors.Is(err, report.ErrParentNotFound):
		d.metrics.RecordError(ev.Kind, "parent_not_found")
		if !d.strict {
			d.logger.WarnContext(ctx, "event skipped", "kind", ev.Kind, "cid", ev.CID, "error", err)
			return nil
		}
		return fmt.Errorf("%s: %w", ev.Kind, err)
	default:
		d.metrics.RecordError(ev.Kind, "invalid")
		return fmt.Errorf("%s: %w", ev.Kind, err)
	}
}

// DispatchAll applies events in order and stops at the first error or when
// ctx is cancelled.
func (d *Dispatcher) DispatchAll(ctx context.Context, evs []Event) error {
	for i, ev := range evs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Dispatch(ctx, ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func (d *Dispatcher) apply(ev Event) error {
	b := d.builder
	switch ev.Kind {
	case KindFeatureStarted:
		p, ok := ev.Params.(report.FeatureParams)
		if !ok {
			return paramsTypeError(ev)
		}
		return b.AddFeature(ev.CID, p)
	case KindScenarioStarted:
		p, ok := ev.Params.(report.ScenarioParams)
		if !ok {
			return paramsTypeError(ev)
		}
		return b.AddScenario(ev.CID, p)
	case KindStepFinished:
		p, ok := ev.Params.(report.StepParams)
		if !ok {
			return paramsTypeError(ev)
		}
		return b.AddStep(ev.CID, p)
	case KindHookFinished:
		p, ok := ev.Params.(report.HookParams)
		if !ok {
			return paramsTypeError(ev)
		}
		return b.AddHook(ev.CID, p)
	case KindRunMetadata:
		p, ok := ev.Params.(report.MetaParams)
		if !ok {
			return paramsTypeError(ev)
		}
		return b.AddMeta(ev.CID, p)
	case KindScenarioFinished:
		p, ok := ev.Params.(report.ScenarioRef)
		if !ok {
			return paramsTypeError(ev)
		}
		return b.FlattenTitle(ev.CID, p)
	case KindRunFinished:
		b.PruneAll()
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, ev.Kind)
	}
}

func paramsTypeError(ev Event) error {
	return fmt.Errorf("params of type %T do not match kind %q", ev.Params, ev.Kind)
}
