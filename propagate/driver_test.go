package propagate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/plugin"
)

type fakePropagator struct {
	name      string
	prio      int
	freq      int
	remaining int
}

func (f *fakePropagator) Name() string  { return f.name }
func (f *fakePropagator) Priority() int { return f.prio }
func (f *fakePropagator) Frequency() int { return f.freq }
func (f *fakePropagator) Propagate(focus *node.Node) (cons.Result, error) {
	if f.remaining > 0 {
		f.remaining--
		return cons.ReducedDomain, nil
	}
	return cons.Feasible, nil
}
func (f *fakePropagator) ResolvePropagation(v *node.BoundChange) ([]*node.BoundChange, error) {
	return nil, nil
}

func TestDriverRunConvergesWhenUnproductive(t *testing.T) {
	handlers := cons.NewRegistry()
	props := plugin.NewRegistry[plugin.Propagator]()
	require.NoError(t, props.Add(&fakePropagator{name: "p1", prio: 1, freq: 1, remaining: 2}))

	d := New(handlers, props)
	focus := node.New(nil, 0)
	res, err := d.Run(focus)
	require.NoError(t, err)
	assert.Equal(t, cons.Feasible, res)
}

func TestDriverRunStopsOnCutoff(t *testing.T) {
	handlers := cons.NewRegistry()
	props := plugin.NewRegistry[plugin.Propagator]()
	cutoffProp := &fakePropagator{name: "p1", prio: 1, freq: 1, remaining: 0}
	require.NoError(t, props.Add(cutoffProp))

	// Wrap with a handler that signals Cutoff directly.
	h := &cons.Handler{
		Name: "h", PropFreq: 1,
		Propagate: func(h *cons.Handler, c *cons.Constraint) (cons.Result, error) { return cons.Cutoff, nil },
	}
	require.NoError(t, handlers.AddHandler(h))
	require.NoError(t, handlers.Add(cons.NewConstraint("c1", h, nil)))

	d := New(handlers, props)
	focus := node.New(nil, 0)
	res, err := d.Run(focus)
	require.NoError(t, err)
	assert.Equal(t, cons.Cutoff, res)
}

func TestAnalyzeSingleAssertingChangeWithoutExpansion(t *testing.T) {
	bc1 := &node.BoundChange{Level: 0}
	bc2 := &node.BoundChange{Level: 1, Reason: &node.Reason{Deducer: "p1", Antecedents: []*node.BoundChange{bc1}}}
	bc3 := &node.BoundChange{Level: 1}

	// bc3, the last trail entry, is a decision (nil Reason): the backward
	// walk reaches it first and it alone brings nbAtLevel to 1, so bc2's
	// reason is never expanded.
	result, err := Analyze([]*node.BoundChange{bc1, bc2, bc3}, 1)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, bc3, result.AssertingChange)
	assert.Empty(t, result.Antecedents)
}

func TestAnalyzeExpandsReasonIntoAntecedents(t *testing.T) {
	bc1 := &node.BoundChange{Level: 0}
	bc2 := &node.BoundChange{Level: 1, Reason: &node.Reason{Deducer: "p1", Antecedents: []*node.BoundChange{bc1}}}
	bc3 := &node.BoundChange{Level: 1}

	// With bc2 last, the backward walk dequeues it first; its reason pulls
	// bc1 in as an antecedent instead of resolving the conflict outright.
	result, err := Analyze([]*node.BoundChange{bc1, bc3, bc2}, 1)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.Antecedents, bc1)
	assert.Contains(t, []*node.BoundChange{bc2, bc3}, result.AssertingChange)
}
