package propagate

import "github.com/opencip/cip/node"

// ConflictConstraint is the artifact 1st-UIP analysis produces: the
// bound changes that, together, caused the infeasibility, suitable for a
// ConflictAnalyzer plugin to turn into an actual cons.Constraint.
type ConflictConstraint struct {
	AssertingChange *node.BoundChange
	Antecedents     []*node.BoundChange
}

// Analyze adapts the teacher's learnClause (1st-UIP clause learning over
// the propagation trail, solver/learn.go) from boolean literals to
// bound-change reason graphs: trail is the full root-to-conflict path
// (node.Node.Trail), in the order the changes were made; conflictLevel is
// the level (node depth) at which the conflict was discovered — every
// trail entry at that level is implicated (the CIP analogue of the clause
// the SAT solver conflicted on). Analyze walks the trail backward,
// replacing each at-conflictLevel entry with its antecedents (via its
// Reason, nil for a branching decision) until exactly one at-conflictLevel
// entry remains — the asserting change — collecting every earlier-level
// bound change encountered along the way.
func Analyze(trail []*node.BoundChange, conflictLevel int) (*ConflictConstraint, error) {
	met := make(map[*node.BoundChange]bool)
	atLevel := make(map[*node.BoundChange]bool)
	var antecedents []*node.BoundChange
	nbAtLevel := 0

	consider := func(bc *node.BoundChange) {
		if met[bc] {
			return
		}
		met[bc] = true
		if bc.Level == conflictLevel {
			atLevel[bc] = true
			nbAtLevel++
		} else {
			antecedents = append(antecedents, bc)
		}
	}
	for _, bc := range trail {
		if bc.Level == conflictLevel {
			consider(bc)
		}
	}

	ptr := len(trail) - 1
	var asserting *node.BoundChange
	for nbAtLevel > 1 {
		for ptr >= 0 && !atLevel[trail[ptr]] {
			ptr--
		}
		if ptr < 0 {
			break
		}
		bc := trail[ptr]
		ptr--
		nbAtLevel--
		if bc.Reason == nil {
			asserting = bc
			continue
		}
		for _, ant := range bc.Reason.Antecedents {
			consider(ant)
		}
	}
	if asserting == nil {
		for bc := range atLevel {
			asserting = bc
			break
		}
	}

	return &ConflictConstraint{AssertingChange: asserting, Antecedents: antecedents}, nil
}
