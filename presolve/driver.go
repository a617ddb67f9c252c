// Package presolve implements the presolve driver (C12): rounds of
// presolver plugins by priority until a round makes no progress, plus the
// default dual-fixing presolver (fix a variable to the bound that can
// never worsen the objective when it has no locking constraint in the
// opposing direction).
package presolve

import (
	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/obslog"
	"github.com/opencip/cip/plugin"
)

var log = obslog.For("presolve")

// Driver runs C12's outer stall loop over a priority-ordered list of
// presolver plugins.
type Driver struct {
	Presolvers *plugin.Registry[plugin.Presolver]
}

// New creates a presolve driver over the given presolver registry.
func New(presolvers *plugin.Registry[plugin.Presolver]) *Driver {
	return &Driver{Presolvers: presolvers}
}

// Run repeats rounds across every registered presolver, in priority order,
// until a full round's combined counters are stalled (no fixings, no
// aggregations, no bound changes, no constraint deletions, no coefficient
// changes, no side changes) or any presolver signals Cutoff/Infeasible.
func (d *Driver) Run() (plugin.PresolveCounters, cons.Result, error) {
	var total plugin.PresolveCounters

	for round := 0; ; round++ {
		var roundCounters plugin.PresolveCounters

		for _, p := range d.Presolvers.ByPriority() {
			c, res, err := p.Presolve()
			if err != nil {
				return total, cons.Infeasible, err
			}
			accumulate(&roundCounters, c)
			accumulate(&total, c)
			if res == cons.Infeasible || res == cons.Cutoff {
				log.WithField("presolver", p.Name()).WithField("round", round).Debug("presolve stopped the driver")
				return total, res, nil
			}
		}

		if roundCounters.Stalled() {
			return total, cons.Feasible, nil
		}
	}
}

func accumulate(dst *plugin.PresolveCounters, src plugin.PresolveCounters) {
	dst.Fixings += src.Fixings
	dst.Aggregations += src.Aggregations
	dst.BoundChanges += src.BoundChanges
	dst.ConstraintDeletes += src.ConstraintDeletes
	dst.CoefficientChanges += src.CoefficientChanges
	dst.SideChanges += src.SideChanges
}
