package presolve

import (
	"math"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/corerr"
	"github.com/opencip/cip/model"
	"github.com/opencip/cip/plugin"
)

// VarLocks counts, for one transformed variable, how many active rows
// would be violated by decreasing (Down) or increasing (Up) its value — the
// same lock counts the teacher's original dualfix presolver keys its
// fixing decision on (nlocksdown/nlocksup in presol_dualfix.c).
type VarLocks struct {
	Var       *model.Transformed
	ObjCoef   float64
	LocksDown int
	LocksUp   int
}

// DualFixing implements plugin.Presolver: any active variable with zero
// locks in the direction the objective favors can be fixed to the
// corresponding bound without ever worsening the objective or violating a
// constraint. If that bound is infinite, the problem is unbounded.
type DualFixing struct {
	Vars     []*VarLocks
	priority int
}

// NewDualFixing creates a dual-fixing presolver over vars, run at the given
// priority.
func NewDualFixing(vars []*VarLocks, priority int) *DualFixing {
	return &DualFixing{Vars: vars, priority: priority}
}

// Name identifies this presolver.
func (d *DualFixing) Name() string { return "dualfix" }

// Priority returns this presolver's dispatch priority.
func (d *DualFixing) Priority() int { return d.priority }

// Presolve scans d.Vars once, fixing every roundable variable it finds.
func (d *DualFixing) Presolve() (plugin.PresolveCounters, cons.Result, error) {
	var counters plugin.PresolveCounters

	for _, vl := range d.Vars {
		t := vl.Var
		if !t.IsActive() || t.Domain.Fixed() {
			continue
		}

		var target float64
		var direction string
		switch {
		case vl.ObjCoef > 0 && vl.LocksDown == 0:
			target, direction = t.Domain.GlobalLower, "lower"
		case vl.ObjCoef < 0 && vl.LocksUp == 0:
			target, direction = t.Domain.GlobalUpper, "upper"
		case vl.ObjCoef == 0 && vl.LocksDown == 0:
			target, direction = t.Domain.GlobalLower, "lower"
		default:
			continue
		}

		if math.IsInf(target, 0) {
			return counters, cons.Infeasible, corerr.New(corerr.Unbounded,
				"presolve.DualFixing: variable "+varName(t)+" roundable to an infinite "+direction+" bound")
		}

		if _, err := t.SetGlobalLower(target); err != nil {
			return counters, cons.Infeasible, err
		}
		if _, err := t.SetGlobalUpper(target); err != nil {
			return counters, cons.Infeasible, err
		}
		if _, err := t.SetLocalLower(target); err != nil {
			return counters, cons.Infeasible, err
		}
		if _, err := t.SetLocalUpper(target); err != nil {
			return counters, cons.Infeasible, err
		}
		counters.Fixings++
	}

	return counters, cons.Feasible, nil
}

func varName(t *model.Transformed) string {
	if t.Original != nil {
		return t.Original.Name
	}
	return "<transformed>"
}
