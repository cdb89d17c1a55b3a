// Package report builds Cucumber-JSON report trees from test lifecycle events.
package report

import (
	"bytes"
	"encoding/json"
	"sync"
)

// Report is the root document for one context id.
type Report struct {
	Features []*Feature `json:"features"` // never nil (use empty slice)

	mu sync.Mutex
}

// Feature is a top-level node of the report tree.
type Feature struct {
	Keyword     string      `json:"keyword"`
	Type        string      `json:"type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ID          string      `json:"id"`
	Tags        []string    `json:"tags"`
	URI         string      `json:"uri"`
	Line        int         `json:"line"`
	Metadata    *Metadata   `json:"metadata,omitempty"`
	Elements    []*Scenario `json:"elements"` // never nil
}

// Scenario is a child of a Feature.
type Scenario struct {
	Keyword     string   `json:"keyword"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ID          string   `json:"id"`
	Tags        []string `json:"tags"`
	URI         string   `json:"uri"`
	Line        int      `json:"line"`
	Steps       []*Step  `json:"steps"` // never nil

	// Arguments collects step arguments until FlattenTitle folds them into
	// Name. Serialized while non-nil (including as []), absent once flattened.
	Arguments []string `json:"arguments"`
}

// MarshalJSON writes arguments only while the scenario is unflattened.
func (s Scenario) MarshalJSON() ([]byte, error) {
	type plain Scenario
	doc := struct {
		*plain
		Arguments *[]string `json:"arguments,omitempty"`
	}{plain: (*plain)(&s)}
	if s.Arguments != nil {
		doc.Arguments = &s.Arguments
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Step is a child of a Scenario. Hooks are stored as steps with Hidden set.
type Step struct {
	Keyword    string      `json:"keyword"`
	Name       string      `json:"name"`
	ID         string      `json:"id"`
	Tags       []string    `json:"tags"`
	URI        string      `json:"uri"`
	Line       int         `json:"line"`
	Result     Result      `json:"result"`
	Hidden     bool        `json:"hidden,omitempty"`
	Embeddings []Embedding `json:"embeddings"` // never nil
}

// Result is the execution outcome of a step or hook.
type Result struct {
	// Status is "passed", "failed", "skipped", "pending" or "undefined".
	Status string `json:"status" yaml:"status"`

	// Duration is in nanoseconds.
	Duration int64 `json:"duration,omitempty" yaml:"duration"`

	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message"`
}

// Embedding is an attachment on a step.
type Embedding struct {
	Data  string `json:"data"`
	Media Media  `json:"media"`
}

// Media describes the content of an Embedding.
type Media struct {
	Type string `json:"type"`
}

// Metadata describes the environment a feature ran in.
type Metadata struct {
	Browser  Browser  `json:"browser"`
	Device   string   `json:"device"`
	Platform Platform `json:"platform"`
}

// Browser identifies the browser under test.
type Browser struct {
	Name    string `json:"name"`
	Version string `json:"version"` // display label derived from Name, not a real version
}

// Platform identifies the host operating system.
type Platform struct {
	Name    string `json:"name"`    // "osx" | "windows" | "linux"
	Version string `json:"version"` // "<os type> <os release>"
}

// FeatureParams are the fields of a feature-started event.
type FeatureParams struct {
	ID          string   `json:"id" yaml:"id"`
	Keyword     string   `json:"keyword" yaml:"keyword"`
	Type        string   `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	URI         string   `json:"uri" yaml:"uri"`
	Line        int      `json:"line" yaml:"line"`
}

// ScenarioParams are the fields of a scenario-started event.
type ScenarioParams struct {
	ParentID    string   `json:"parentId" yaml:"parentId"` // owning feature id
	ID          string   `json:"id" yaml:"id"`
	Keyword     string   `json:"keyword" yaml:"keyword"`
	Type        string   `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	URI         string   `json:"uri" yaml:"uri"`
	Line        int      `json:"line" yaml:"line"`
}

// AttachmentParams is an embedding as supplied by the runner.
type AttachmentParams struct {
	Data     string `json:"data" yaml:"data"`
	MimeType string `json:"mimeType" yaml:"mimeType"`
}

// StepParams are the fields of a step-finished event.
type StepParams struct {
	ParentID   string             `json:"parentId" yaml:"parentId"` // owning scenario id
	ID         string             `json:"id" yaml:"id"`
	Keyword    string             `json:"keyword" yaml:"keyword"`
	Name       string             `json:"name" yaml:"name"`
	Tags       []string           `json:"tags" yaml:"tags"`
	URI        string             `json:"uri" yaml:"uri"`
	Line       int                `json:"line" yaml:"line"`
	Result     Result             `json:"result" yaml:"result"`
	Embeddings []AttachmentParams `json:"embeddings" yaml:"embeddings"`
	Arguments  []string           `json:"arguments" yaml:"arguments"` // merged into the scenario title
}

// HookParams are the fields of a hook-finished event.
type HookParams struct {
	ParentID   string             `json:"parentId" yaml:"parentId"` // owning scenario id
	ID         string             `json:"id" yaml:"id"`
	Keyword    string             `json:"keyword" yaml:"keyword"`
	Name       string             `json:"name" yaml:"name"`
	Tags       []string           `json:"tags" yaml:"tags"`
	URI        string             `json:"uri" yaml:"uri"`
	Line       int                `json:"line" yaml:"line"`
	Result     Result             `json:"result" yaml:"result"`
	Embeddings []AttachmentParams `json:"embeddings" yaml:"embeddings"`
}

// MetaParams are the fields of a run-metadata event.
type MetaParams struct {
	Browser    string `json:"browser" yaml:"browser"`
	DeviceName string `json:"deviceName" yaml:"deviceName"`
}

// ScenarioRef addresses a scenario for FlattenTitle.
type ScenarioRef struct {
	ParentID string `json:"parentId" yaml:"parentId"` // owning feature id
	ID       string `json:"id" yaml:"id"`
}
