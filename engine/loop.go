package engine

import (
	"math"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/corerr"
	"github.com/opencip/cip/lprelax"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/plugin"
	"github.com/opencip/cip/solution"
)

// solveLoop is §4.14's 12-step node loop, run until the queue empties, a
// limit trips (Aborted), or the problem is proven unbounded.
func (e *Engine) solveLoop() error {
	for {
		e.checkLimits()
		if e.stopped {
			e.state = Aborted
			return nil
		}

		// 1. If queue empty → solved: every open node has been closed, so
		// the dual bound converges onto the incumbent (the search proved no
		// better solution exists) or, absent one, the problem is infeasible.
		if e.queue.Empty() {
			if incumbent, ok := e.cfg.Store.Incumbent(); ok {
				e.dualBound = dualSenseBound(incumbent.Objective, e.cfg.Maximize)
				e.state = SolvedOptimal
			} else {
				e.state = SolvedInfeasible
			}
			return nil
		}

		// 2. bound(globalUpperBound) on queue.
		if ub, ok := e.cfg.Store.UpperBound(); ok {
			e.queue.Bound(boundCutoff(ub, e.cfg.Maximize))
		}
		if e.queue.Empty() {
			continue
		}
		if minBound, ok := e.queue.MinLowerBound(); ok {
			e.dualBound = minBound
		}

		// 3. Pop focus node, apply its set-change.
		focus := e.queue.PopBest()
		focus.Transition(node.Focus)
		e.nodeCount++
		e.updateMetrics()

		if err := e.applyFocus(focus); err != nil {
			return err
		}

		closed, err := e.processFocus(focus)
		if err != nil {
			return err
		}
		if !closed {
			branched, err := e.branch(focus)
			if err != nil {
				return err
			}
			if !branched {
				focus.Transition(node.ProcessedInfeasible)
			}
		}

		if err := focus.Undo(); err != nil {
			return err
		}
		if err := e.sepDriver.DropSubtree(focus.Depth); err != nil {
			return err
		}

		// 12. Between nodes, run heuristics matching frequency.
		if e.cfg.HeuristicFrequencyNodes > 0 && e.nodeCount%int64(e.cfg.HeuristicFrequencyNodes) == 0 {
			if _, err := e.heurDriver.Round(focus, int(e.nodeCount), plugin.AnyContext, e.cfg.CheckIntegrality, e.cfg.CheckLPRows); err != nil {
				return err
			}
		}
	}
}

func (e *Engine) applyFocus(focus *node.Node) error {
	if err := focus.Apply(); err != nil {
		return err
	}
	for _, bc := range focus.Bounds {
		col, ok := e.columnOf[bc.Var]
		if !ok {
			continue
		}
		lower, upper := bc.Var.Domain.LocalLower, bc.Var.Domain.LocalUpper
		if err := e.cfg.LP.SetColBounds(col, lower, upper); err != nil {
			return err
		}
	}
	return nil
}

// processFocus runs steps 4–10 of §4.14 for one popped node, returning
// whether the node was closed (feasible, infeasible, or bounded) without
// needing to branch.
func (e *Engine) processFocus(focus *node.Node) (bool, error) {
	// 4. Propagate until fixpoint.
	res, err := e.propDriver.Run(focus)
	if err != nil {
		return false, err
	}
	if res == cons.Cutoff {
		if err := e.analyzeConflict(focus); err != nil {
			return false, err
		}
		focus.Transition(node.ProcessedInfeasible)
		return true, nil
	}

	// 5. If pseudo solution is integer and feasible → offer to store. Only
	// closes the node when Store.Try actually accepts the candidate; a
	// pseudo point that violates a row is rejected and falls through to the
	// real LP solve below instead of abandoning the subtree unproven.
	if values, ok := e.pseudoSolution(); ok {
		cand := solution.Solution{Values: values, Objective: e.cfg.Objective(values), Source: "pseudo"}
		tr, err := e.cfg.Store.Try(e.cfg.Handlers, cand, e.cfg.CheckIntegrality, e.cfg.CheckLPRows)
		if err != nil {
			return false, err
		}
		if tr.Accepted {
			focus.Transition(node.ProcessedFeasible)
			return true, nil
		}
	}

	for {
		// 6. Else solve LP.
		status, err := e.cfg.LP.Solve()
		e.lpSolveCount++
		if e.cfg.Metrics != nil {
			e.cfg.Metrics.LPSolveCount.Inc()
		}
		if err != nil {
			return false, err
		}

		// 7. If LP infeasible → conflict-analyze, close node.
		if status == lprelax.Infeasible {
			if err := e.analyzeConflict(focus); err != nil {
				return false, err
			}
			focus.Transition(node.ProcessedInfeasible)
			return true, nil
		}
		if status == lprelax.Unbounded {
			return false, corerr.New(corerr.Unbounded, "engine.processFocus: LP relaxation unbounded")
		}

		// 8. If LP optimal and objective ≥ upper bound → close (bounded).
		// focus.LowerBound is always kept in minimize-sense: the search
		// direction's dual bound, negated when maximizing, so the node
		// queue's single >= cutoff convention (nodequeue.Queue.Bound)
		// works unchanged regardless of search direction.
		obj := e.cfg.LP.ObjectiveValue()
		focus.LowerBound = dualSenseBound(obj, e.cfg.Maximize)
		if ub, ok := e.cfg.Store.UpperBound(); ok && boundedOut(obj, ub, e.cfg.Maximize) {
			focus.Transition(node.ProcessedInfeasible)
			return true, nil
		}

		// 9. Else run separator rounds; if any cut efficacious, re-solve.
		limit := e.cfg.SeparationRounds
		if focus.Depth == 0 {
			limit = e.cfg.SeparationRoundsRoot
		}
		resolve := false
		for round := 0; limit < 0 || round < limit; round++ {
			cuts, any, err := e.sepDriver.Round(focus)
			if err != nil {
				return false, err
			}
			e.separationRounds++
			e.cutsGenerated += int64(len(cuts))
			if e.cfg.Metrics != nil {
				e.cfg.Metrics.SeparationRounds.Inc()
				e.cfg.Metrics.CutsGenerated.Add(float64(len(cuts)))
			}
			if !any {
				break
			}
			resolve = true
		}
		if resolve {
			continue
		}

		// 10. Else run enforcement; loop on resolved infeasibility.
		enfoRes, _, err := e.cfg.Handlers.Enforce(true)
		if err != nil {
			return false, err
		}
		switch enfoRes {
		case cons.Infeasible:
			// A fractional LP point is branched; an integral one has no
			// integrality branching candidate, so the node closes.
			if !e.integerFeasible() {
				focus.Transition(node.ProcessedToBranch)
				return false, nil
			}
			focus.Transition(node.ProcessedInfeasible)
			return true, nil
		case cons.Cutoff:
			focus.Transition(node.ProcessedInfeasible)
			return true, nil
		case cons.ReducedDomain, cons.Separated, cons.ConsAdded:
			continue
		}

		if !e.integerFeasible() {
			focus.Transition(node.ProcessedToBranch)
			return false, nil
		}

		values := e.cfg.LP.PrimalValues()
		cand := solution.Solution{Values: values, Objective: obj, Source: "lp"}
		if _, err := e.cfg.Store.Try(e.cfg.Handlers, cand, e.cfg.CheckIntegrality, e.cfg.CheckLPRows); err != nil {
			return false, err
		}
		focus.Transition(node.ProcessedFeasible)
		return true, nil
	}
}

func (e *Engine) branch(focus *node.Node) (bool, error) {
	for _, rule := range e.cfg.BranchingRules.ByPriority() {
		decision, err := rule.Branch(focus)
		if err != nil {
			return false, err
		}
		if decision.Result != cons.Branched {
			continue
		}
		for _, child := range decision.Children {
			e.queue.Insert(child)
		}
		return true, nil
	}
	return false, corerr.New(corerr.BranchingFailed, "engine.branch: no rule produced children")
}

func (e *Engine) integerFeasible() bool {
	values := e.cfg.LP.PrimalValues()
	for _, ic := range e.cfg.IntegerColumns {
		v := values[ic.Column]
		if math.Abs(v-math.Round(v)) > integralityEpsilon {
			return false
		}
	}
	return true
}

const integralityEpsilon = 1e-6

// pseudoSolution builds a full column-value vector from each column's
// objective-favored bound, returning ok=false if any column's favored
// bound is infinite (no pseudo solution can be formed yet).
func (e *Engine) pseudoSolution() ([]float64, bool) {
	n := e.cfg.LP.NumCols()
	values := make([]float64, n)
	for col := 0; col < n; col++ {
		coef := float64(0)
		if col < len(e.cfg.ObjCoefs) {
			coef = e.cfg.ObjCoefs[col]
		}
		favorLower := coef >= 0
		if e.cfg.Maximize {
			favorLower = !favorLower
		}
		var v float64
		if favorLower {
			v = e.cfg.LP.ColLower(col)
		} else {
			v = e.cfg.LP.ColUpper(col)
		}
		if math.IsInf(v, 0) {
			return nil, false
		}
		values[col] = v
	}
	for _, ic := range e.cfg.IntegerColumns {
		v := values[ic.Column]
		if math.Abs(v-math.Round(v)) > integralityEpsilon {
			return nil, false
		}
	}
	return values, true
}

// boundCutoff converts a primal bound into the value nodequeue.Bound should
// prune at or above: the bound itself when minimizing, its negation when
// maximizing (the queue always prunes by "lower bound ≥ cutoff").
func boundCutoff(primalBound float64, maximize bool) float64 {
	return dualSenseBound(primalBound, maximize)
}

// dualSenseBound converts a raw objective value into the engine's
// minimize-sense dual bound convention: unchanged when minimizing,
// negated when maximizing.
func dualSenseBound(v float64, maximize bool) float64 {
	if maximize {
		return -v
	}
	return v
}

func boundedOut(lpObjective, primalBound float64, maximize bool) bool {
	if maximize {
		return lpObjective <= primalBound
	}
	return lpObjective >= primalBound
}
