package engine

import (
	"fmt"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/model"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/propagate"
)

// conflictHandlerName is the shared cons.Handler every learned conflict
// constraint is filed under, the same one-handler-many-constraints pattern
// linrows uses for try-solution row checks.
const conflictHandlerName = "conflict"

// conflictEps tolerates LP-solution noise when deciding whether a literal's
// tightened side still holds for a candidate.
const conflictEps = 1e-6

// conflictLiteral is one bound-disjunction literal: column's bound was
// tightened to bound on the given side. Grounded on SCIP's
// cons_bounddisjunction: a learned constraint is violated only when every
// literal's tightened side holds, i.e. none of them has been relaxed.
type conflictLiteral struct {
	column int
	upper  bool
	bound  float64
}

func (l conflictLiteral) holds(v float64) bool {
	if l.upper {
		return v <= l.bound+conflictEps
	}
	return v >= l.bound-conflictEps
}

// newConflictHandler builds the handler every learned conflict constraint is
// filed under. Its Check callback rejects a candidate only if every literal
// in the constraint's payload still holds for it — the same combination of
// tightened bounds that produced the original infeasibility.
func newConflictHandler() *cons.Handler {
	return &cons.Handler{
		Name:        conflictHandlerName,
		Description: "bound-disjunction constraints learned from conflict analysis",
		ChkPriority: 1,
		Check: func(h *cons.Handler, c *cons.Constraint, values []float64, checkIntegrality, checkLPRows bool) (cons.Result, error) {
			literals, _ := c.Payload.([]conflictLiteral)
			for _, lit := range literals {
				if lit.column >= len(values) || !lit.holds(values[lit.column]) {
					return cons.Feasible, nil
				}
			}
			return cons.Infeasible, nil
		},
		EnforceLP: func(h *cons.Handler, c *cons.Constraint) (cons.Result, error) {
			return cons.Feasible, nil
		},
	}
}

// conflictAnalyzer is the built-in plugin.ConflictAnalyzer the engine
// registers for itself when the caller supplies none: 1st-UIP clause
// learning (propagate.Analyze) over the node's trail, turned into literals
// against the LP columns the engine already tracks.
type conflictAnalyzer struct {
	columnOf map[*model.Transformed]int
	handler  *cons.Handler
	count    int
}

func (a *conflictAnalyzer) Name() string { return "1st-uip" }

// Analyze walks trail backward to its 1st-UIP asserting change and
// antecedents, then projects every bound change with a tracked LP column
// into a conflict literal. A bound change on a variable with no LP column
// (§3's aggregated/fixed variables) contributes nothing and is dropped; if
// nothing survives, no constraint is worth learning.
func (a *conflictAnalyzer) Analyze(trail []*node.BoundChange) (*cons.Constraint, error) {
	if len(trail) == 0 {
		return nil, nil
	}
	conflictLevel := trail[len(trail)-1].Level
	result, err := propagate.Analyze(trail, conflictLevel)
	if err != nil {
		return nil, err
	}
	if result == nil || result.AssertingChange == nil {
		return nil, nil
	}

	changes := append([]*node.BoundChange{result.AssertingChange}, result.Antecedents...)
	literals := buildLiterals(a.columnOf, changes)
	if len(literals) == 0 {
		return nil, nil
	}

	a.count++
	return cons.NewConstraint(fmt.Sprintf("conflict-%d", a.count), a.handler, literals), nil
}

func buildLiterals(columnOf map[*model.Transformed]int, changes []*node.BoundChange) []conflictLiteral {
	var literals []conflictLiteral
	for _, bc := range changes {
		col, ok := columnOf[bc.Var]
		if !ok {
			continue
		}
		literals = append(literals, conflictLiteral{column: col, upper: bc.Upper, bound: bc.NewVal})
	}
	return literals
}

// ensureConflictAnalysis registers the built-in handler and analyzer the
// first time the engine runs with no caller-supplied analyzer, so
// analyzeConflict always has somewhere to file what it learns. A caller
// that wired its own plugin.ConflictAnalyzer is left untouched.
func (e *Engine) ensureConflictAnalysis() error {
	if e.cfg.ConflictAnalyzers.Len() > 0 {
		return nil
	}
	h := newConflictHandler()
	if err := e.cfg.Handlers.AddHandler(h); err != nil {
		return err
	}
	return e.cfg.ConflictAnalyzers.Add(&conflictAnalyzer{columnOf: e.columnOf, handler: h})
}

// analyzeConflict runs every registered conflict analyzer over focus's
// trail and files whatever constraint each one learns, called on an
// LP-infeasible or propagation-cutoff node before it is closed (§4.9).
func (e *Engine) analyzeConflict(focus *node.Node) error {
	if e.cfg.ConflictAnalyzers == nil || e.cfg.ConflictAnalyzers.Len() == 0 {
		return nil
	}
	trail := focus.Trail()
	if len(trail) == 0 {
		return nil
	}
	for _, analyzer := range e.cfg.ConflictAnalyzers.All() {
		constraint, err := analyzer.Analyze(trail)
		if err != nil {
			return err
		}
		if constraint == nil {
			continue
		}
		if err := e.cfg.Handlers.Add(constraint); err != nil {
			return err
		}
		log.WithField("run_id", e.runID).WithField("node_id", focus.ID).WithField("analyzer", analyzer.Name()).Debug("conflict constraint learned")
	}
	return nil
}
