package markup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStage struct {
	name  string
	phase Phase
	deps  Dependencies
	apply func(*Tree) error
}

func (m mockStage) Name() string              { return m.name }
func (m mockStage) Phase() Phase              { return m.phase }
func (m mockStage) Dependencies() Dependencies { return m.deps }
func (m mockStage) Apply(_ context.Context, t *Tree) error {
	if m.apply != nil {
		return m.apply(t)
	}
	return nil
}

func names(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Name()
	}
	return out
}

func TestResolveOrder_Linear(t *testing.T) {
	stages := []Stage{
		mockStage{name: "third", phase: PhaseDecorate, deps: Dependencies{MustRunAfter: []string{"second"}}},
		mockStage{name: "first", phase: PhaseDecorate},
		mockStage{name: "second", phase: PhaseDecorate, deps: Dependencies{MustRunAfter: []string{"first"}}},
	}
	got, err := ResolveOrder(stages)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, names(got))
}

func TestResolveOrder_Diamond(t *testing.T) {
	stages := []Stage{
		mockStage{name: "d", phase: PhaseSlug, deps: Dependencies{MustRunAfter: []string{"b", "c"}}},
		mockStage{name: "c", phase: PhaseSlug, deps: Dependencies{MustRunAfter: []string{"a"}}},
		mockStage{name: "b", phase: PhaseSlug, deps: Dependencies{MustRunAfter: []string{"a"}}},
		mockStage{name: "a", phase: PhaseSlug},
	}
	got, err := ResolveOrder(stages)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(got))
}

func TestResolveOrder_RunAfterIfPresent(t *testing.T) {
	ordered, err := ResolveOrder([]Stage{
		mockStage{name: "a", phase: PhaseDecorate, deps: Dependencies{RunAfterIfPresent: []string{"b"}}},
		mockStage{name: "b", phase: PhaseDecorate},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names(ordered))

	ordered, err = ResolveOrder([]Stage{
		mockStage{name: "a", phase: PhaseDecorate, deps: Dependencies{RunAfterIfPresent: []string{"missing"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(ordered))
}

func TestResolveOrder_MustRunBefore(t *testing.T) {
	stages := []Stage{
		mockStage{name: "a", phase: PhaseDecorate},
		mockStage{name: "z", phase: PhaseDecorate, deps: Dependencies{MustRunBefore: []string{"a"}}},
	}
	got, err := ResolveOrder(stages)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, names(got))
}

func TestResolveOrder_PhasesWinOverNames(t *testing.T) {
	stages := []Stage{
		mockStage{name: "a", phase: PhaseDecorate},
		mockStage{name: "b", phase: PhaseStructure},
		mockStage{name: "c", phase: PhaseSlug},
	}
	got, err := ResolveOrder(stages)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, names(got))
}

func TestResolveOrder_Cycle(t *testing.T) {
	stages := []Stage{
		mockStage{name: "a", phase: PhaseSlug, deps: Dependencies{MustRunAfter: []string{"b"}}},
		mockStage{name: "b", phase: PhaseSlug, deps: Dependencies{MustRunAfter: []string{"a"}}},
	}
	_, err := ResolveOrder(stages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestResolveOrder_Errors(t *testing.T) {
	_, err := ResolveOrder([]Stage{mockStage{name: "x", phase: "bogus"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid phase")

	_, err = ResolveOrder([]Stage{
		mockStage{name: "x", phase: PhaseSlug},
		mockStage{name: "x", phase: PhaseSlug},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate stage name")
}

func TestValidateDependencies(t *testing.T) {
	t.Run("missing dependency", func(t *testing.T) {
		err := ValidateDependencies([]Stage{
			mockStage{name: "a", phase: PhaseSlug, deps: Dependencies{MustRunAfter: []string{"ghost"}}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing stage")
	})

	t.Run("after a later phase", func(t *testing.T) {
		err := ValidateDependencies([]Stage{
			mockStage{name: "early", phase: PhaseSlug, deps: Dependencies{MustRunAfter: []string{"late"}}},
			mockStage{name: "late", phase: PhaseDecorate},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "later phase")
	})

	t.Run("before an earlier phase", func(t *testing.T) {
		err := ValidateDependencies([]Stage{
			mockStage{name: "early", phase: PhaseSlug},
			mockStage{name: "late", phase: PhaseDecorate, deps: Dependencies{MustRunBefore: []string{"early"}}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "earlier phase")
	})

	t.Run("heading ids required", func(t *testing.T) {
		err := ValidateDependencies([]Stage{TOC{Levels: []int{2}}})
		require.Error(t, err)
	})

	t.Run("optional predecessor absent", func(t *testing.T) {
		require.NoError(t, ValidateDependencies([]Stage{HeadingIDs{}, AnchorLinks{}}))
	})

	t.Run("optional predecessor in a later phase", func(t *testing.T) {
		err := ValidateDependencies([]Stage{
			mockStage{name: "early", phase: PhaseSlug, deps: Dependencies{RunAfterIfPresent: []string{"late"}}},
			mockStage{name: "late", phase: PhaseDecorate},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "later phase")
	})

	t.Run("default chain", func(t *testing.T) {
		stages, err := DefaultStages("")
		require.NoError(t, err)
		require.NoError(t, ValidateDependencies(stages))

		ordered, err := ResolveOrder(stages)
		require.NoError(t, err)
		assert.Equal(t, []string{"heading_ids", "toc", "highlight", "anchor_links"}, names(ordered))
	})
}
