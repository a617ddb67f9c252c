// Package plugin declares the core's pluggable contracts (node selector,
// branching rule, separator, propagator, primal heuristic, presolver, file
// reader, variable pricer, conflict-analyzer hook) and the typed named
// registry (C15) that holds them, sorted by priority for O(1) lookup and
// cached priority-ordered iteration.
package plugin

import (
	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/node"
)

// NodeSelector implements C7: select the next focus node, and compare two
// nodes for the priority queue's ordering.
type NodeSelector interface {
	Name() string
	Priority() int
	// LowestBoundFirst declares whether this selector's primary key is the
	// local lower bound, enabling the queue's min-lower-bound fast path.
	LowestBoundFirst() bool
	Select(children, siblings []*node.Node, queueFront *node.Node) *node.Node
	Compare(a, b *node.Node) int
}

// BranchDecision is one rule's branching outcome.
type BranchDecision struct {
	Children []*node.Node
	Result   cons.Result // Branched or DidNotRun
}

// BranchingRule implements C8: given an LP-optimal, integrality-infeasible
// focus node, produce one or more children with bound changes.
type BranchingRule interface {
	Name() string
	Priority() int
	Branch(focus *node.Node) (BranchDecision, error)
}

// Cut is a separator-produced cutting plane: a row plus metadata used for
// scoring and pool placement (§4.10).
type Cut struct {
	Name      string
	Coeffs    []float64
	Lower     float64
	Upper     float64
	Local     bool // local cuts live for the subtree; global cuts join the persistent pool
	Violation float64
	Norm      float64
}

// Efficacy is violation/norm, the score used to decide whether a cut is
// worth adding (§4.10).
func (c Cut) Efficacy() float64 {
	if c.Norm == 0 {
		return 0
	}
	return c.Violation / c.Norm
}

// Separator implements C10: produce cuts at the current LP-optimal point.
type Separator interface {
	Name() string
	Priority() int
	Separate(focus *node.Node) ([]Cut, cons.Result, error)
}

// Propagator implements C9's domain-reduction side, independent of the
// constraint-handler propagate slot (which also participates in C9's
// round-robin, see the cons package).
type Propagator interface {
	Name() string
	Priority() int
	Frequency() int
	Propagate(focus *node.Node) (cons.Result, error)
	// ResolvePropagation supplies the antecedent bound-change list for a
	// bound change this propagator deduced, seeding conflict-constraint
	// learning (§4.9).
	ResolvePropagation(v *node.BoundChange) ([]*node.BoundChange, error)
}

// HeuristicResult is a primal heuristic's outcome (§4.11).
type HeuristicResult int

const (
	DidNotRun HeuristicResult = iota
	DidNotFind
	FoundSolution
)

// HeuristicContext restricts when a heuristic may run.
type HeuristicContext int

const (
	PseudoSolutionContext HeuristicContext = iota
	LPSolutionContext
	AnyContext
)

// Heuristic implements C11: a primal heuristic.
type Heuristic interface {
	Name() string
	DisplayChar() byte
	Frequency() int
	Priority() int
	Context() HeuristicContext
	UsesDiving() bool
	Run(focus *node.Node) (HeuristicResult, []float64, error)
}

// PresolveCounters reports what a presolve round changed, used to detect
// a stalled round (§4.12).
type PresolveCounters struct {
	Fixings            int
	Aggregations       int
	BoundChanges       int
	ConstraintDeletes  int
	CoefficientChanges int
	SideChanges        int
}

// Stalled reports whether this round of counters made no progress.
func (c PresolveCounters) Stalled() bool {
	return c == PresolveCounters{}
}

// Presolver implements C12: one round of presolve.
type Presolver interface {
	Name() string
	Priority() int
	Presolve() (PresolveCounters, cons.Result, error)
}

// Reader implements C15's file-reader plugin kind: parse a problem file
// into the constraint/variable model (out of scope for concrete formats
// per §1, but the contract itself is core).
type Reader interface {
	Name() string
	Extensions() []string
	Read(path string) error
}

// Pricer implements C15's variable-pricer plugin kind: generate new
// columns (variables) with negative reduced cost during an LP re-solve in
// column-generation settings.
type Pricer interface {
	Name() string
	Priority() int
	Price(focus *node.Node) (cons.Result, error)
}

// ConflictAnalyzer implements C15's conflict-analyzer-hook plugin kind:
// given the trail of bound changes leading to an infeasibility, produce a
// conflict constraint (§4.9's adaptation of 1st-UIP learning).
type ConflictAnalyzer interface {
	Name() string
	Analyze(trail []*node.BoundChange) (*cons.Constraint, error)
}
