package cons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstraintFlagsFromHandlerSlots(t *testing.T) {
	h := &Handler{
		Name: "linear",
		Separate: func(h *Handler, c *Constraint) (Result, error) {
			return Feasible, nil
		},
		Check: func(h *Handler, c *Constraint, values []float64, a, b bool) (Result, error) {
			return Feasible, nil
		},
	}
	c := NewConstraint("c1", h, nil)
	assert.True(t, c.Has(FlagSeparate))
	assert.True(t, c.Has(FlagCheck))
	assert.False(t, c.Has(FlagEnforce))
	assert.False(t, c.Has(FlagPropagate))
	assert.True(t, c.Active())
	assert.True(t, c.Enabled())
}

func TestRegistryAddHandlerRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	h := &Handler{Name: "linear"}
	require.NoError(t, r.AddHandler(h))
	assert.Error(t, r.AddHandler(&Handler{Name: "linear"}))
}

func TestRegistrySortsByPriority(t *testing.T) {
	r := NewRegistry()
	low := &Handler{Name: "low", EnfoPriority: 1}
	high := &Handler{Name: "high", EnfoPriority: 10}
	mid := &Handler{Name: "mid", EnfoPriority: 5}
	require.NoError(t, r.AddHandler(low))
	require.NoError(t, r.AddHandler(high))
	require.NoError(t, r.AddHandler(mid))

	require.Len(t, r.byEnfo, 3)
	assert.Equal(t, "high", r.byEnfo[0].Name)
	assert.Equal(t, "mid", r.byEnfo[1].Name)
	assert.Equal(t, "low", r.byEnfo[2].Name)
}

func TestEnforceStopsAtFirstStoppingResult(t *testing.T) {
	r := NewRegistry()
	calls := []string{}

	first := &Handler{
		Name: "first", EnfoPriority: 10,
		EnforceLP: func(h *Handler, c *Constraint) (Result, error) {
			calls = append(calls, "first")
			return ReducedDomain, nil
		},
	}
	second := &Handler{
		Name: "second", EnfoPriority: 5,
		EnforceLP: func(h *Handler, c *Constraint) (Result, error) {
			calls = append(calls, "second")
			return Feasible, nil
		},
	}
	require.NoError(t, r.AddHandler(first))
	require.NoError(t, r.AddHandler(second))
	require.NoError(t, r.Add(NewConstraint("c1", first, nil)))
	require.NoError(t, r.Add(NewConstraint("c2", second, nil)))

	res, stopped, err := r.Enforce(true)
	require.NoError(t, err)
	assert.Equal(t, ReducedDomain, res)
	assert.Equal(t, "c1", stopped.Name)
	assert.Equal(t, []string{"first"}, calls)
}

func TestEnforceAllFeasibleReturnsFeasible(t *testing.T) {
	r := NewRegistry()
	h := &Handler{
		Name: "h", EnfoPriority: 1,
		EnforceLP: func(h *Handler, c *Constraint) (Result, error) { return Feasible, nil },
	}
	require.NoError(t, r.AddHandler(h))
	require.NoError(t, r.Add(NewConstraint("c1", h, nil)))

	res, stopped, err := r.Enforce(true)
	require.NoError(t, err)
	assert.Equal(t, Feasible, res)
	assert.Nil(t, stopped)
}

func TestEnforceAllInfeasibleReturnsInfeasible(t *testing.T) {
	r := NewRegistry()
	h := &Handler{
		Name: "h", EnfoPriority: 1,
		EnforceLP: func(h *Handler, c *Constraint) (Result, error) { return Infeasible, nil },
	}
	require.NoError(t, r.AddHandler(h))
	require.NoError(t, r.Add(NewConstraint("c1", h, nil)))

	res, _, err := r.Enforce(true)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res)
}

func TestCheckStopsAtFirstInfeasible(t *testing.T) {
	r := NewRegistry()
	calls := []string{}
	first := &Handler{
		Name: "first", ChkPriority: 10,
		Check: func(h *Handler, c *Constraint, values []float64, ci, clr bool) (Result, error) {
			calls = append(calls, "first")
			return Infeasible, nil
		},
	}
	second := &Handler{
		Name: "second", ChkPriority: 5,
		Check: func(h *Handler, c *Constraint, values []float64, ci, clr bool) (Result, error) {
			calls = append(calls, "second")
			return Feasible, nil
		},
	}
	require.NoError(t, r.AddHandler(first))
	require.NoError(t, r.AddHandler(second))
	require.NoError(t, r.Add(NewConstraint("c1", first, nil)))
	require.NoError(t, r.Add(NewConstraint("c2", second, nil)))

	res, stopped, err := r.Check(nil, true, true)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res)
	assert.Equal(t, "c1", stopped.Name)
	assert.Equal(t, []string{"first"}, calls)
}

func TestPropagateRepeatsUntilUnproductive(t *testing.T) {
	r := NewRegistry()
	remaining := 2
	h := &Handler{
		Name: "h", PropFreq: 1,
		Propagate: func(h *Handler, c *Constraint) (Result, error) {
			if remaining > 0 {
				remaining--
				return ReducedDomain, nil
			}
			return Feasible, nil
		},
	}
	require.NoError(t, r.AddHandler(h))
	require.NoError(t, r.Add(NewConstraint("c1", h, nil)))

	res, err := r.Propagate(0)
	require.NoError(t, err)
	assert.Equal(t, Feasible, res)
	assert.Equal(t, 0, remaining)
}

func TestPropagateStopsOnCutoff(t *testing.T) {
	r := NewRegistry()
	h := &Handler{
		Name: "h", PropFreq: 1,
		Propagate: func(h *Handler, c *Constraint) (Result, error) { return Cutoff, nil },
	}
	require.NoError(t, r.AddHandler(h))
	require.NoError(t, r.Add(NewConstraint("c1", h, nil)))

	res, err := r.Propagate(0)
	require.NoError(t, err)
	assert.Equal(t, Cutoff, res)
}

func TestPropagateSkipsHandlerNotAtDepth(t *testing.T) {
	r := NewRegistry()
	called := false
	h := &Handler{
		Name: "h", PropFreq: 3,
		Propagate: func(h *Handler, c *Constraint) (Result, error) {
			called = true
			return Feasible, nil
		},
	}
	require.NoError(t, r.AddHandler(h))
	require.NoError(t, r.Add(NewConstraint("c1", h, nil)))

	_, err := r.Propagate(1) // 1 % 3 != 0
	require.NoError(t, err)
	assert.False(t, called)
}

func TestConsSetChangeApplyAndUndo(t *testing.T) {
	r := NewRegistry()
	h := &Handler{Name: "h"}
	require.NoError(t, r.AddHandler(h))

	added := NewConstraint("added", h, nil)
	added.clear(FlagActive) // simulate "not yet active" before Apply

	disabled := NewConstraint("disabled", h, nil)
	require.NoError(t, r.Add(disabled))

	change := &ConsSetChange{Added: []*Constraint{added}, Disabled: []*Constraint{disabled}}
	require.NoError(t, change.Apply(r))
	assert.True(t, added.Active())
	assert.False(t, disabled.Enabled())

	require.NoError(t, change.Undo())
	assert.False(t, added.Active())
	assert.True(t, disabled.Enabled())
}
