package report

// FindFeature returns the first feature in r whose id is featureID.
func FindFeature(r *Report, featureID string) (*Feature, error) {
	for _, f := range r.Features {
		if f.ID == featureID {
			return f, nil
		}
	}
	return nil, &NotFoundError{Kind: KindFeature, ID: featureID}
}

// FindScenarioByParent scans features then scenarios in insertion order and
// returns the first scenario whose id is scenarioID, with its owning feature.
// Scenario ids must be unique within a context: when two features hold a
// scenario with the same id, the one in the earlier feature always wins.
func FindScenarioByParent(r *Report, scenarioID string) (*Feature, *Scenario, error) {
	for _, f := range r.Features {
		if s, err := FindScenario(f, scenarioID); err == nil {
			return f, s, nil
		}
	}
	return nil, nil, &NotFoundError{Kind: KindScenario, ID: scenarioID}
}

// FindScenario returns the scenario of f whose id is scenarioID.
func FindScenario(f *Feature, scenarioID string) (*Scenario, error) {
	for _, s := range f.Elements {
		if s.ID == scenarioID {
			return s, nil
		}
	}
	return nil, &NotFoundError{Kind: KindScenario, ID: scenarioID}
}

// FindStep returns the index and value of the first step of s whose id is
// stepID.
func FindStep(s *Scenario, stepID string) (int, *Step, error) {
	for i, st := range s.Steps {
		if st.ID == stepID {
			return i, st, nil
		}
	}
	return -1, nil, &NotFoundError{Kind: KindStep, ID: stepID}
}
