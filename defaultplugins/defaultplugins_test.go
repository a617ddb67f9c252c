package defaultplugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/lprelax"
	"github.com/opencip/cip/model"
	"github.com/opencip/cip/node"
)

func TestDepthFirstSelectorPrefersDeeperChild(t *testing.T) {
	s := NewDepthFirstSelector(1)
	root := node.New(nil, 0)
	shallow := node.New(root, 0)
	deep := node.New(shallow, 0)

	picked := s.Select([]*node.Node{shallow, deep}, nil, nil)
	assert.Same(t, deep, picked)
}

func TestDepthFirstSelectorFallsBackToQueueFront(t *testing.T) {
	s := NewDepthFirstSelector(1)
	front := node.New(nil, 0)
	picked := s.Select(nil, nil, front)
	assert.Same(t, front, picked)
}

func TestDepthFirstSelectorCompareTieBreaksOnInsertionIndex(t *testing.T) {
	s := NewDepthFirstSelector(1)
	a := node.New(nil, 0)
	b := node.New(nil, 0)
	a.InsertionIndex = 1
	b.InsertionIndex = 2
	assert.Equal(t, -1, s.Compare(a, b))
}

func newIntegerVar(lower, upper float64) *model.Transformed {
	orig := model.NewOriginal(0, "x", model.Integer, 0)
	tr, _ := orig.Transform(0, lower, upper)
	return tr
}

func TestMostFractionalBranchingPicksClosestToHalf(t *testing.T) {
	v1 := newIntegerVar(0, 10)
	v2 := newIntegerVar(0, 10)

	lp := lprelax.NewMemoryLP(2)
	status, err := lp.Solve()
	require.NoError(t, err)
	_ = status

	rule := NewMostFractionalBranching([]VarColumn{
		{Var: v1, Column: 0},
		{Var: v2, Column: 1},
	}, lp, 1)

	// Directly exercise the fractional-distance selection logic without
	// depending on a specific LP solve outcome: patch in known primal
	// values via a tiny stub.
	stub := &stubLP{values: []float64{2.1, 2.5}}
	rule.LP = stub

	focus := node.New(nil, 0)
	decision, err := rule.Branch(focus)
	require.NoError(t, err)
	assert.Equal(t, cons.Branched, decision.Result)
	require.Len(t, decision.Children, 2)
	// v2 (frac 0.5, exactly 1/2) is strictly more fractional than v1
	// (frac 0.1), so it is the chosen branching variable: down floors its
	// upper bound to 2, up raises its lower bound to 3. Both changes are
	// recorded as pending, not applied, so v2's domain is untouched until
	// whichever child is later focused calls Apply.
	down, up := decision.Children[0], decision.Children[1]
	require.Len(t, down.Bounds, 1)
	require.Len(t, up.Bounds, 1)
	assert.Same(t, v2, down.Bounds[0].Var)
	assert.True(t, down.Bounds[0].Upper)
	assert.Equal(t, 2.0, down.Bounds[0].NewVal)
	assert.Same(t, v2, up.Bounds[0].Var)
	assert.False(t, up.Bounds[0].Upper)
	assert.Equal(t, 3.0, up.Bounds[0].NewVal)
	assert.Equal(t, 0.0, v2.Domain.LocalLower)
	assert.Equal(t, 10.0, v2.Domain.LocalUpper)

	require.NoError(t, down.Apply())
	assert.Equal(t, 2.0, v2.Domain.LocalUpper)
	require.NoError(t, down.Undo())
	assert.Equal(t, 10.0, v2.Domain.LocalUpper)
}

func TestMostFractionalBranchingDidNotRunOnIntegralPoint(t *testing.T) {
	v1 := newIntegerVar(0, 10)
	stub := &stubLP{values: []float64{3.0}}
	rule := NewMostFractionalBranching([]VarColumn{{Var: v1, Column: 0}}, stub, 1)

	focus := node.New(nil, 0)
	decision, err := rule.Branch(focus)
	require.NoError(t, err)
	assert.Equal(t, cons.DidNotRun, decision.Result)
}

type stubLP struct {
	lprelax.LP
	values []float64
}

func (s *stubLP) PrimalValues() []float64 { return s.values }
