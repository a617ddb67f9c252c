// Package solution implements the solution store (C13): a bounded pool of
// feasible solutions ordered by objective quality, with an incumbent and
// the try-solution admission path that runs the constraint-handler check
// pass before accepting a candidate.
package solution

import (
	"sort"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/obslog"
)

var log = obslog.For("solution")

// Solution is one feasible assignment over the original variable space,
// together with its objective value.
type Solution struct {
	Values    []float64
	Objective float64
	Source    string // which heuristic/engine path produced it, for display
}

// Store keeps the best K solutions by objective (K configurable), tracks
// the current incumbent, and exposes try-solution admission (§4.13).
type Store struct {
	maximize  bool
	limit     int
	solutions []Solution
}

// New creates an empty store that keeps at most limit solutions, ordered by
// objective in the search direction given by maximize.
func New(maximize bool, limit int) *Store {
	if limit <= 0 {
		limit = 1
	}
	return &Store{maximize: maximize, limit: limit}
}

// betterOrEqual reports whether a is at least as good as b in the search
// direction.
func (s *Store) betterOrEqual(a, b float64) bool {
	if s.maximize {
		return a >= b
	}
	return a <= b
}

func (s *Store) better(a, b float64) bool {
	if s.maximize {
		return a > b
	}
	return a < b
}

// Incumbent returns the best solution currently held, or false if the
// store is empty.
func (s *Store) Incumbent() (Solution, bool) {
	if len(s.solutions) == 0 {
		return Solution{}, false
	}
	return s.solutions[0], true
}

// Len returns the number of solutions currently held.
func (s *Store) Len() int { return len(s.solutions) }

// All returns every held solution, best first.
func (s *Store) All() []Solution { return s.solutions }

// TryResult reports the outcome of offering a candidate to the store.
type TryResult struct {
	Accepted         bool
	ImprovedIncumbent bool
	CheckResult       cons.Result
}

// Try runs the constraint-handler check pass (cons.Registry.Check) over
// cand, and if it is feasible, admits it into the pool — evicting the
// worst-held solution if the pool is already at its limit — reporting
// whether it became the new incumbent.
func (s *Store) Try(registry *cons.Registry, cand Solution, checkIntegrality, checkLPRows bool) (TryResult, error) {
	res, _, err := registry.Check(cand.Values, checkIntegrality, checkLPRows)
	if err != nil {
		return TryResult{CheckResult: cons.Infeasible}, err
	}
	if res == cons.Infeasible {
		return TryResult{CheckResult: res}, nil
	}

	_, hadIncumbent := s.Incumbent()
	improved := !hadIncumbent
	if hadIncumbent {
		best, _ := s.Incumbent()
		improved = s.better(cand.Objective, best.Objective)
	}

	s.solutions = append(s.solutions, cand)
	sort.SliceStable(s.solutions, func(i, j int) bool {
		return s.better(s.solutions[i].Objective, s.solutions[j].Objective)
	})
	if len(s.solutions) > s.limit {
		s.solutions = s.solutions[:s.limit]
	}

	if improved {
		log.WithField("objective", cand.Objective).WithField("source", cand.Source).Debug("new incumbent")
	}

	return TryResult{Accepted: true, ImprovedIncumbent: improved, CheckResult: res}, nil
}

// UpperBound returns the current global upper bound implied by the
// incumbent in minimize mode, or the lower bound implied in maximize mode —
// the cutoff value §4.14 step 2 passes into the node queue's Bound call.
// The returned ok is false when no incumbent exists yet.
func (s *Store) UpperBound() (float64, bool) {
	best, ok := s.Incumbent()
	if !ok {
		return 0, false
	}
	return best.Objective, true
}
