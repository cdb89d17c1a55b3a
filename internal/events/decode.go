// Package events decodes lifecycle event streams and applies them to report
// trees.
package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eykd/cukereport/internal/report"
)

// Event kinds.
const (
	KindFeatureStarted   = "feature-started"
	KindScenarioStarted  = "scenario-started"
	KindStepFinished     = "step-finished"
	KindHookFinished     = "hook-finished"
	KindRunMetadata      = "run-metadata"
	KindScenarioFinished = "scenario-finished"
	KindRunFinished      = "run-finished"
)

// ErrUnknownKind is returned for events whose kind is not one of the Kind
// constants.
var ErrUnknownKind = errors.New("unknown event kind")

// Event is one decoded lifecycle event. Params holds the typed parameters of
// Kind: report.FeatureParams, report.ScenarioParams, report.StepParams,
// report.HookParams, report.MetaParams or report.ScenarioRef; nil for
// run-finished.
type Event struct {
	Kind   string
	CID    string
	Params any
}

// Format selects the on-disk encoding of an event stream.
type Format int

const (
	// FormatJSONLines is a sequence of JSON objects, normally one per line.
	FormatJSONLines Format = iota
	// FormatYAML is a multi-document YAML stream.
	FormatYAML
)

// FormatForPath infers the stream format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSONLines
	}
}

// jsonEnvelope is the JSON form of an event.
type jsonEnvelope struct {
	Version string          `json:"version"`
	Kind    string          `json:"kind"`
	CID     string          `json:"cid"`
	Params  json.RawMessage `json:"params"`
}

// yamlEnvelope is the YAML form of an event.
type yamlEnvelope struct {
	Version string    `yaml:"version"`
	Kind    string    `yaml:"kind"`
	CID     string    `yaml:"cid"`
	Params  yaml.Node `yaml:"params"`
}

// Decode reads every event of the stream in r.
func Decode(r io.Reader, format Format) ([]Event, error) {
	if format == FormatYAML {
		return decodeYAML(r)
	}
	return decodeJSON(r)
}

func decodeJSON(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var out []Event
	for i := 0; ; i++ {
		var env jsonEnvelope
		if err := dec.Decode(&env); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		ev, err := newEvent(env.Version, env.Kind, env.CID, func(v any) error {
			if len(env.Params) == 0 || bytes.Equal(env.Params, []byte("null")) {
				return nil
			}
			return json.Unmarshal(env.Params, v)
		})
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, ev)
	}
}

func decodeYAML(r io.Reader) ([]Event, error) {
	dec := yaml.NewDecoder(r)
	var out []Event
	for i := 0; ; i++ {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if emptyDocument(&doc) {
			continue
		}
		var env yamlEnvelope
		if err := doc.Decode(&env); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		ev, err := newEvent(env.Version, env.Kind, env.CID, func(v any) error {
			if env.Params.Kind == 0 {
				return nil
			}
			return env.Params.Decode(v)
		})
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, ev)
	}
}

// emptyDocument reports whether a YAML document holds nothing, as produced by
// a stray or trailing "---" separator.
func emptyDocument(doc *yaml.Node) bool {
	n := doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return true
		}
		n = n.Content[0]
	}
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// newEvent validates the envelope and decodes params into the type of kind.
func newEvent(version, kind, cid string, decode func(any) error) (Event, error) {
	if version != "" && version != "1" {
		return Event{}, fmt.Errorf("unsupported event version %q", version)
	}
	if kind == "" {
		return Event{}, errors.New("missing kind")
	}
	if kind != KindRunFinished && cid == "" {
		return Event{}, fmt.Errorf("%s: missing cid", kind)
	}

	var params any
	switch kind {
	case KindFeatureStarted:
		var p report.FeatureParams
		if err := decode(&p); err != nil {
			return Event{}, fmt.Errorf("%s params: %w", kind, err)
		}
		params = p
	case KindScenarioStarted:
		var p report.ScenarioParams
		if err := decode(&p); err != nil {
			return Event{}, fmt.Errorf("%s params: %w", kind, err)
		}
		params = p
	case KindStepFinished:
		var p report.StepParams
		if err := decode(&p); err != nil {
			return Event{}, fmt.Errorf("%s params: %w", kind, err)
		}
		params = p
	case KindHookFinished:
		var p report.HookParams
		if err := decode(&p); err != nil {
			return Event{}, fmt.Errorf("%s params: %w", kind, err)
		}
		params = p
	case KindRunMetadata:
		var p report.MetaParams
		if err := decode(&p); err != nil {
			return Event{}, fmt.Errorf("%s params: %w", kind, err)
		}
		params = p
	case KindScenarioFinished:
		var p report.ScenarioRef
		if err := decode(&p); err != nil {
			return Event{}, fmt.Errorf("%s params: %w", kind, err)
		}
		params = p
	case KindRunFinished:
	default:
		return Event{}, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return Event{Kind: kind, CID: cid, Params: params}, nil
}
