package defaultplugins

import (
	"math"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/lprelax"
	"github.com/opencip/cip/model"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/plugin"
)

// VarColumn pairs an integrality-constrained transformed variable with its
// column index in the shared LP relaxation.
type VarColumn struct {
	Var    *model.Transformed
	Column int
	// Priority breaks ties among equally fractional variables (§4.8); a
	// higher branching priority wins.
	Priority int
}

// MostFractionalBranching implements plugin.BranchingRule (C8): branch on
// the integer variable whose LP value's fractional part is closest to
// 1/2, breaking ties by branching priority then variable index — grounded
// on the teacher's mostInfeasibleBranchPoint, generalized from "closest
// remainder wins outright" to "closest remainder, tie broken
// deterministically" since the original never needed a tiebreak rule.
type MostFractionalBranching struct {
	Vars     []VarColumn
	LP       lprelax.LP
	priority int
}

// NewMostFractionalBranching creates the default branching rule over vars,
// sharing lp with the engine's LP relaxation.
func NewMostFractionalBranching(vars []VarColumn, lp lprelax.LP, priority int) *MostFractionalBranching {
	return &MostFractionalBranching{Vars: vars, LP: lp, priority: priority}
}

// Name identifies this branching rule.
func (b *MostFractionalBranching) Name() string { return "most-fractional" }

// Priority returns this rule's dispatch priority.
func (b *MostFractionalBranching) Priority() int { return b.priority }

// Branch scans b.Vars for the most integrality-infeasible column and
// produces two children: one with the column's upper bound floored, one
// with its lower bound ceiled.
func (b *MostFractionalBranching) Branch(focus *node.Node) (plugin.BranchDecision, error) {
	values := b.LP.PrimalValues()

	var chosen *VarColumn
	bestDist := math.Inf(1)
	for i := range b.Vars {
		vc := &b.Vars[i]
		if !vc.Var.IsActive() || vc.Var.Domain.Fixed() {
			continue
		}
		v := values[vc.Column]
		frac := v - math.Floor(v)
		if isNearIntegral(frac) {
			continue
		}
		dist := math.Abs(0.5 - frac)
		switch {
		case chosen == nil:
			chosen = vc
			bestDist = dist
		case dist < bestDist:
			chosen = vc
			bestDist = dist
		case dist == bestDist && vc.Priority > chosen.Priority:
			chosen = vc
		case dist == bestDist && vc.Priority == chosen.Priority && vc.Var.Index < chosen.Var.Index:
			chosen = vc
		}
	}

	if chosen == nil {
		return plugin.BranchDecision{Result: cons.DidNotRun}, nil
	}

	v := values[chosen.Column]
	floor := math.Floor(v)
	ceil := math.Ceil(v)

	down := node.New(focus, focus.LowerBound)
	down.AddPendingUpperBoundChange(chosen.Var, floor)
	up := node.New(focus, focus.LowerBound)
	up.AddPendingLowerBoundChange(chosen.Var, ceil)

	return plugin.BranchDecision{Children: []*node.Node{down, up}, Result: cons.Branched}, nil
}

const integralityEps = 1e-6

func isNearIntegral(frac float64) bool {
	return frac < integralityEps || frac > 1-integralityEps
}
