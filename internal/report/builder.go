package report

// Builder applies lifecycle events to the report trees held by a Registry.
// Events for one context id must come from a single goroutine; different
// context ids may be driven concurrently.
type Builder struct {
	registry *Registry
	host     HostInfo
}

// Option configures a Builder.
type Option func(*Builder)

// WithHost pins the host information used by AddMeta.
func WithHost(h HostInfo) Option {
	return func(b *Builder) { b.host = h }
}

// NewBuilder returns a Builder that mutates reports owned by registry.
func NewBuilder(registry *Registry, opts ...Option) *Builder {
	b := &Builder{registry: registry, host: DefaultHost()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the registry the builder writes to.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// edit runs fn on the report for cid while holding its lock.
func (b *Builder) edit(cid string, fn func(*Report) error) error {
	r := b.registry.GetOrCreate(cid)
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

// AddFeature appends a feature to the report of cid. Feature ids are not
// deduplicated: adding the same id twice yields two entries.
func (b *Builder) AddFeature(cid string, p FeatureParams) error {
	return b.edit(cid, func(r *Report) error {
		r.Features = append(r.Features, &Feature{
			Keyword:     p.Keyword,
			Type:        p.Type,
			Name:        p.Name,
			Description: p.Description,
			ID:          p.ID,
			Tags:        tagsOrEmpty(p.Tags),
			URI:         p.URI,
			Line:        p.Line,
			Elements:    []*Scenario{},
		})
		return nil
	})
}

// AddScenario appends a scenario under the feature p.ParentID. When the
// feature already holds a scenario with p.ID the call is a no-op.
func (b *Builder) AddScenario(cid string, p ScenarioParams) error {
	return b.edit(cid, func(r *Report) error {
		f, err := FindFeature(r, p.ParentID)
		if err != nil {
			return parentNotFound(cid, err)
		}
		if _, err = FindScenario(f, p.ID); err == nil {
			return nil
		}
		f.Elements = append(f.Elements, &Scenario{
			Keyword:     p.Keyword,
			Type:        p.Type,
			Name:        p.Name,
			Description: p.Description,
			ID:          p.ID,
			Tags:        tagsOrEmpty(p.Tags),
			URI:         p.URI,
			Line:        p.Line,
			Steps:       []*Step{},
			Arguments:   []string{},
		})
		return nil
	})
}

// AddStep upserts a step into the scenario p.ParentID: a step with the same
// id is replaced at its original position, otherwise the step is appended.
// p.Arguments are merged into the scenario's argument list on every call.
func (b *Builder) AddStep(cid string, p StepParams) error {
	return b.edit(cid, func(r *Report) error {
		_, s, err := FindScenarioByParent(r, p.ParentID)
		if err != nil {
			return parentNotFound(cid, err)
		}
		st := &Step{
			Keyword:    p.Keyword,
			Name:       p.Name,
			ID:         p.ID,
			Tags:       tagsOrEmpty(p.Tags),
			URI:        p.URI,
			Line:       p.Line,
			Result:     p.Result,
			Embeddings: convertEmbeddings(p.Embeddings),
		}
		if i, _, err := FindStep(s, p.ID); err == nil {
			s.Steps[i] = st
		} else {
			s.Steps = append(s.Steps, st)
		}
		s.Arguments = unionStrings(s.Arguments, p.Arguments)
		return nil
	})
}

// AddHook appends a hidden step for a hook under the scenario p.ParentID.
// Hooks are never deduplicated.
func (b *Builder) AddHook(cid string, p HookParams) error {
	return b.edit(cid, func(r *Report) error {
		_, s, err := FindScenarioByParent(r, p.ParentID)
		if err != nil {
			return parentNotFound(cid, err)
		}
		s.Steps = append(s.Steps, &Step{
			Keyword:    p.Keyword,
			Name:       p.Name,
			ID:         p.ID,
			Tags:       tagsOrEmpty(p.Tags),
			URI:        p.URI,
			Line:       p.Line,
			Result:     p.Result,
			Hidden:     true,
			Embeddings: convertEmbeddings(p.Embeddings),
		})
		return nil
	})
}

// AddMeta overwrites the metadata of every feature currently in the report
// of cid. Features added afterwards carry no metadata until the next call.
func (b *Builder) AddMeta(cid string, p MetaParams) error {
	platform := Platform{
		Name:    PlatformLabel(b.host.GOOS),
		Version: b.host.OSVersion(),
	}
	return b.edit(cid, func(r *Report) error {
		for _, f := range r.Features {
			f.Metadata = &Metadata{
				Browser: Browser{
					Name:    p.Browser,
					Version: browserLabel(p.Browser),
				},
				Device:   p.DeviceName,
				Platform: platform,
			}
		}
		return nil
	})
}

func convertEmbeddings(in []AttachmentParams) []Embedding {
	out := make([]Embedding, 0, len(in))
	for _, a := range in {
		out = append(out, Embedding{Data: a.Data, Media: Media{Type: a.MimeType}})
	}
	return out
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return append([]string{}, tags...)
}

// unionStrings appends the values of add not already in dst, keeping
// first-seen order and dropping repeats within add.
func unionStrings(dst, add []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(add))
	out := make([]string, 0, len(dst)+len(add))
	for _, v := range dst {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range add {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
