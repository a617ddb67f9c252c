// Package cons implements the constraint object and handler registry (C3):
// constraint handlers with prioritized callback slots, constraint objects
// carrying a flag set, and the enforcement/checking/propagation driver loops
// that iterate handlers in priority order.
package cons

// Result is the outcome of a handler callback, shared across enforce,
// check, and propagate (§4.3).
type Result int

const (
	// Feasible: the handler found nothing wrong; the caller keeps going.
	Feasible Result = iota
	// Infeasible: the constraint is violated and nothing else can fix it
	// locally; the node must be branched or discarded.
	Infeasible
	// Cutoff: the handler proved the node can be pruned outright (e.g. a
	// propagated bound makes the LP infeasible without re-solving).
	Cutoff
	// Branched: the handler performed branching itself (constraint-specific
	// branching) and children were created.
	Branched
	// ReducedDomain: the handler tightened one or more variable bounds.
	ReducedDomain
	// Separated: the handler added one or more cutting planes.
	Separated
	// ConsAdded: the handler added a new constraint to the problem.
	ConsAdded
	// DidNotRun: the handler declined to run (e.g. branching rule not
	// applicable to the current fractional solution).
	DidNotRun
)

func (r Result) String() string {
	switch r {
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Cutoff:
		return "cutoff"
	case Branched:
		return "branched"
	case ReducedDomain:
		return "reduced-domain"
	case Separated:
		return "separated"
	case ConsAdded:
		return "consadded"
	case DidNotRun:
		return "did-not-run"
	default:
		return "unknown-result"
	}
}

// stopsEnforcement reports whether a result ends the enforcement loop
// before every handler has run (§4.3).
func (r Result) stopsEnforcement() bool {
	switch r {
	case Cutoff, Branched, ReducedDomain, Separated, ConsAdded:
		return true
	default:
		return false
	}
}
