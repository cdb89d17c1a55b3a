package report

// clone returns a deep copy of r. The caller holds r.mu.
func (r *Report) clone() *Report {
	out := &Report{Features: make([]*Feature, len(r.Features))}
	for i, f := range r.Features {
		out.Features[i] = f.clone()
	}
	return out
}

func (f *Feature) clone() *Feature {
	c := *f
	c.Tags = cloneStrings(f.Tags)
	if f.Metadata != nil {
		m := *f.Metadata
		c.Metadata = &m
	}
	c.Elements = make([]*Scenario, len(f.Elements))
	for i, s := range f.Elements {
		c.Elements[i] = s.clone()
	}
	return &c
}

func (s *Scenario) clone() *Scenario {
	c := *s
	c.Tags = cloneStrings(s.Tags)
	c.Arguments = cloneStrings(s.Arguments)
	c.Steps = make([]*Step, len(s.Steps))
	for i, st := range s.Steps {
		c.Steps[i] = st.clone()
	}
	return &c
}

func (st *Step) clone() *Step {
	c := *st
	c.Tags = cloneStrings(st.Tags)
	c.Embeddings = append([]Embedding{}, st.Embeddings...)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
