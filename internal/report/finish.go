package report

import "strings"

// FlattenTitle appends the collected step arguments of a scenario to its
// name as " (a, b)" and drops the argument list. Once flattened, a second
// call leaves the name unchanged.
func (b *Builder) FlattenTitle(cid string, ref ScenarioRef) error {
	return b.edit(cid, func(r *Report) error {
		f, err := FindFeature(r, ref.ParentID)
		if err != nil {
			return parentNotFound(cid, err)
		}
		s, err := FindScenario(f, ref.ID)
		if err != nil {
			return parentNotFound(cid, err)
		}
		if len(s.Arguments) > 0 {
			s.Name += " (" + strings.Join(s.Arguments, ", ") + ")"
		}
		s.Arguments = nil
		return nil
	})
}

// PruneEmptyFeatures drops the features of cid's report that hold no
// scenarios. Relative order of the remaining features is kept. Unknown
// context ids are left unregistered.
func (b *Builder) PruneEmptyFeatures(cid string) {
	r, ok := b.registry.lookup(cid)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneEmptyFeatures()
}

// PruneAll applies PruneEmptyFeatures to every registered context.
func (b *Builder) PruneAll() {
	for _, cid := range b.registry.ContextIDs() {
		b.PruneEmptyFeatures(cid)
	}
}

func (r *Report) pruneEmptyFeatures() {
	kept := make([]*Feature, 0, len(r.Features))
	for _, f := range r.Features {
		if len(f.Elements) > 0 {
			kept = append(kept, f)
		}
	}
	r.Features = kept
}
