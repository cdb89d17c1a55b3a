package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locateFixture() *Report {
	st := &Step{ID: "st"}
	s1 := &Scenario{ID: "s1", Steps: []*Step{{ID: "a"}, st}}
	s2 := &Scenario{ID: "s2"}
	return &Report{Features: []*Feature{
		{ID: "f1", Elements: []*Scenario{s1}},
		{ID: "f2", Elements: []*Scenario{s2}},
	}}
}

func TestFindFeature(t *testing.T) {
	r := locateFixture()
	f, err := FindFeature(r, "f2")
	require.NoError(t, err)
	assert.Equal(t, "f2", f.ID)

	_, err = FindFeature(r, "f3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, `feature "f3" not found`)
}

func TestFindScenarioByParent(t *testing.T) {
	r := locateFixture()
	f, s, err := FindScenarioByParent(r, "s2")
	require.NoError(t, err)
	assert.Equal(t, "f2", f.ID)
	assert.Equal(t, "s2", s.ID)

	_, _, err = FindScenarioByParent(r, "s3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindStep(t *testing.T) {
	s := locateFixture().Features[0].Elements[0]
	i, st, err := FindStep(s, "st")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "st", st.ID)

	i, _, err = FindStep(s, "zz")
	assert.Equal(t, -1, i)
	assert.ErrorIs(t, err, ErrNotFound)
}
