package report

import (
	"sort"
	"sync"
)

// Registry maps context ids to their report trees. Create one per run and
// share it between the handlers of that run.
type Registry struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{reports: make(map[string]*Report)}
}

// GetOrCreate returns the report for cid, registering an empty one on first use.
func (g *Registry) GetOrCreate(cid string) *Report {
	g.mu.RLock()
	r, ok := g.reports[cid]
	g.mu.RUnlock()
	if ok {
		return r
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok = g.reports[cid]; ok {
		return r
	}
	r = &Report{Features: []*Feature{}}
	g.reports[cid] = r
	return r
}

// ContextIDs returns the registered context ids in sorted order.
func (g *Registry) ContextIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.reports))
	for id := range g.reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered contexts.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.reports)
}

func (g *Registry) lookup(cid string) (*Report, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.reports[cid]
	return r, ok
}

// Snapshot returns a deep copy of the report for cid. The bool is false when
// cid has never been seen; no report is created in that case.
func (g *Registry) Snapshot(cid string) (*Report, bool) {
	r, ok := g.lookup(cid)
	if !ok {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clone(), true
}
