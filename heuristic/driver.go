// Package heuristic implements the primal heuristic driver (C11):
// frequency/priority/context-gated scheduling of heuristic plugins between
// nodes, offering any solution found to the solution store.
package heuristic

import (
	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/obslog"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/plugin"
	"github.com/opencip/cip/solution"
)

var log = obslog.For("heuristic")

// Objective computes a candidate's objective value from its variable
// assignment, supplied by the engine so this package stays independent of
// the model package's objective representation.
type Objective func(values []float64) float64

// Driver runs C11's per-node heuristic round: every heuristic whose
// frequency divides the current node count and whose declared context
// matches the node's current solution kind is invoked in priority order.
type Driver struct {
	Heuristics *plugin.Registry[plugin.Heuristic]
	Handlers   *cons.Registry
	Store      *solution.Store
	Objective  Objective
}

// New creates a heuristic driver.
func New(heuristics *plugin.Registry[plugin.Heuristic], handlers *cons.Registry, store *solution.Store, obj Objective) *Driver {
	return &Driver{Heuristics: heuristics, Handlers: handlers, Store: store, Objective: obj}
}

// Round runs every heuristic eligible at nodeCount in ctx, offering every
// found solution to the store. It stops early only on an error; a heuristic
// finding no improving solution does not prevent later ones from running.
func (d *Driver) Round(focus *node.Node, nodeCount int, ctx plugin.HeuristicContext, checkIntegrality, checkLPRows bool) ([]solution.TryResult, error) {
	var results []solution.TryResult

	for _, h := range d.Heuristics.ByPriority() {
		freq := h.Frequency()
		if freq <= 0 || nodeCount%freq != 0 {
			continue
		}
		if h.Context() != plugin.AnyContext && h.Context() != ctx {
			continue
		}

		res, values, err := h.Run(focus)
		if err != nil {
			return results, err
		}
		if res != plugin.FoundSolution {
			continue
		}

		cand := solution.Solution{Values: values, Objective: d.Objective(values), Source: h.Name()}
		tr, err := d.Store.Try(d.Handlers, cand, checkIntegrality, checkLPRows)
		if err != nil {
			return results, err
		}
		results = append(results, tr)
		if tr.ImprovedIncumbent {
			log.WithField("node_id", focus.ID).WithField("heuristic", h.Name()).WithField("objective", cand.Objective).
				Debug("heuristic improved incumbent")
		}
	}

	return results, nil
}
