package separate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/lprelax"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/plugin"
)

type fakeSeparator struct {
	name string
	prio int
	cuts []plugin.Cut
	res  cons.Result
}

func (f *fakeSeparator) Name() string  { return f.name }
func (f *fakeSeparator) Priority() int { return f.prio }
func (f *fakeSeparator) Separate(focus *node.Node) ([]plugin.Cut, cons.Result, error) {
	return f.cuts, f.res, nil
}

func TestRoundAcceptsEfficaciousCutsOnly(t *testing.T) {
	seps := plugin.NewRegistry[plugin.Separator]()
	require.NoError(t, seps.Add(&fakeSeparator{
		name: "s1", prio: 1,
		cuts: []plugin.Cut{
			{Name: "efficacious", Violation: 1, Norm: 1},
			{Name: "weak", Violation: 1e-9, Norm: 1},
		},
		res: cons.Separated,
	}))

	lp := lprelax.NewMemoryLP(2)
	d := New(seps, cons.NewRegistry(), lp)
	focus := node.New(nil, 0)
	accepted, any, err := d.Round(focus)
	require.NoError(t, err)
	assert.True(t, any)
	require.Len(t, accepted, 1)
	assert.Equal(t, "efficacious", accepted[0].Name)
	assert.Equal(t, 1, lp.NumRows(), "the accepted cut must be pushed into the LP as a row")
}

func TestRoundSplitsGlobalAndLocalCuts(t *testing.T) {
	seps := plugin.NewRegistry[plugin.Separator]()
	require.NoError(t, seps.Add(&fakeSeparator{
		name: "s1", prio: 1,
		cuts: []plugin.Cut{
			{Name: "global", Violation: 1, Norm: 1, Local: false},
			{Name: "local", Violation: 1, Norm: 1, Local: true},
		},
		res: cons.Separated,
	}))

	lp := lprelax.NewMemoryLP(2)
	d := New(seps, cons.NewRegistry(), lp)
	focus := node.New(nil, 0)
	focus.Depth = 3
	_, _, err := d.Round(focus)
	require.NoError(t, err)

	require.Len(t, d.Pool.Global, 1)
	assert.Equal(t, "global", d.Pool.Global[0].Name)
	require.Len(t, d.Pool.local[3], 1)
	assert.Equal(t, "local", d.Pool.local[3][0].Name)
	assert.Equal(t, 2, lp.NumRows(), "both the global and local cut must land in the LP")
}

func TestRoundStopsOnSeparatorCutoff(t *testing.T) {
	seps := plugin.NewRegistry[plugin.Separator]()
	require.NoError(t, seps.Add(&fakeSeparator{name: "s1", prio: 2, res: cons.Cutoff}))
	require.NoError(t, seps.Add(&fakeSeparator{
		name: "s2", prio: 1,
		cuts: []plugin.Cut{{Name: "never-seen", Violation: 1, Norm: 1}},
		res:  cons.Separated,
	}))

	d := New(seps, cons.NewRegistry(), lprelax.NewMemoryLP(2))
	focus := node.New(nil, 0)
	accepted, any, err := d.Round(focus)
	require.NoError(t, err)
	assert.False(t, any)
	assert.Empty(t, accepted)
}

func TestDropSubtreeClearsLocalCuts(t *testing.T) {
	p := NewPool()
	p.AddLocal(2, plugin.Cut{Name: "c"})
	require.Len(t, p.local[2], 1)
	p.DropSubtree(2)
	assert.Empty(t, p.local[2])
}

func TestDriverDropSubtreeRemovesLocalRowsOnly(t *testing.T) {
	seps := plugin.NewRegistry[plugin.Separator]()
	require.NoError(t, seps.Add(&fakeSeparator{
		name: "s1", prio: 1,
		cuts: []plugin.Cut{
			{Name: "global", Coeffs: []float64{1, 0}, Upper: 5, Violation: 1, Norm: 1, Local: false},
			{Name: "local", Coeffs: []float64{0, 1}, Upper: 5, Violation: 1, Norm: 1, Local: true},
		},
		res: cons.Separated,
	}))

	lp := lprelax.NewMemoryLP(2)
	d := New(seps, cons.NewRegistry(), lp)
	focus := node.New(nil, 0)
	focus.Depth = 3
	_, _, err := d.Round(focus)
	require.NoError(t, err)
	require.Equal(t, 2, lp.NumRows())

	require.NoError(t, d.DropSubtree(3))
	assert.Equal(t, 1, lp.NumRows(), "only the local cut's row must be removed")
	assert.Empty(t, d.Pool.local[3])
	require.Len(t, d.Pool.Global, 1, "the global cut's row and pool entry must survive the backtrack")
}

func TestRoundInvokesHandlerSeparateCallback(t *testing.T) {
	called := false
	h := &cons.Handler{
		Name: "h",
		Separate: func(h *cons.Handler, c *cons.Constraint) (cons.Result, error) {
			called = true
			return cons.Separated, nil
		},
	}
	registry := cons.NewRegistry()
	require.NoError(t, registry.AddHandler(h))
	require.NoError(t, registry.Add(cons.NewConstraint("c1", h, nil)))

	seps := plugin.NewRegistry[plugin.Separator]()
	d := New(seps, registry, lprelax.NewMemoryLP(2))
	focus := node.New(nil, 0)
	_, any, err := d.Round(focus)
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, any, "a handler separating a cut directly into the LP must still mark the round productive")
}

func TestRoundHandlerConsAddedCountsAsProductive(t *testing.T) {
	h := &cons.Handler{
		Name: "h",
		Separate: func(h *cons.Handler, c *cons.Constraint) (cons.Result, error) {
			return cons.ConsAdded, nil
		},
	}
	registry := cons.NewRegistry()
	require.NoError(t, registry.AddHandler(h))
	require.NoError(t, registry.Add(cons.NewConstraint("c1", h, nil)))

	seps := plugin.NewRegistry[plugin.Separator]()
	d := New(seps, registry, lprelax.NewMemoryLP(2))
	focus := node.New(nil, 0)
	accepted, any, err := d.Round(focus)
	require.NoError(t, err)
	assert.Empty(t, accepted, "ConsAdded carries no plugin.Cut; the handler added its own constraint")
	assert.True(t, any)
}

func TestRoundStopsOnHandlerCutoff(t *testing.T) {
	called := false
	h := &cons.Handler{
		Name: "h",
		Separate: func(h *cons.Handler, c *cons.Constraint) (cons.Result, error) {
			called = true
			return cons.Cutoff, nil
		},
	}
	registry := cons.NewRegistry()
	require.NoError(t, registry.AddHandler(h))
	require.NoError(t, registry.Add(cons.NewConstraint("c1", h, nil)))

	seps := plugin.NewRegistry[plugin.Separator]()
	d := New(seps, registry, lprelax.NewMemoryLP(2))
	focus := node.New(nil, 0)
	accepted, any, err := d.Round(focus)
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, any)
	assert.Empty(t, accepted)
}
