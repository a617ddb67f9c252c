// Package linrows implements a minimal linear-row constraint handler: the
// glue cmd/cip needs to make an end-to-end solve meaningful without pulling
// a full linear-constraint-handler implementation into the core (out of
// scope per SPEC §1 — "concrete constraint-handler logic... is external").
// Its working slot is Check, plus an EnforceLP slot that always reports
// feasible: row feasibility at the LP relaxation level is already enforced
// by the rows living in the LP matrix itself, so the handler's one job is verifying a specific try-solution candidate against
// the same rows, which cons.Registry.Check otherwise has nothing to do
// (the admission path would be vacuously feasible with zero handlers).
package linrows

import (
	"github.com/opencip/cip/cons"
)

// Row is a dense linear row: lower <= coeffs·values <= upper.
type Row struct {
	Name         string
	Coeffs       []float64
	Lower, Upper float64
}

// Satisfies reports whether values satisfies this row to within eps.
func (r Row) Satisfies(values []float64, eps float64) bool {
	sum := 0.0
	for i, c := range r.Coeffs {
		if i >= len(values) {
			break
		}
		sum += c * values[i]
	}
	return sum >= r.Lower-eps && sum <= r.Upper+eps
}

const epsilon = 1e-6

// NewHandler builds a *cons.Handler whose Check callback rejects any
// candidate violating one of rows.
func NewHandler(rows []Row) *cons.Handler {
	return &cons.Handler{
		Name:        "linrows",
		Description: "dense linear row feasibility check",
		ChkPriority: 1,
		Check: func(h *cons.Handler, c *cons.Constraint, values []float64, checkIntegrality, checkLPRows bool) (cons.Result, error) {
			if !checkLPRows {
				return cons.Feasible, nil
			}
			for _, row := range rows {
				if !row.Satisfies(values, epsilon) {
					return cons.Infeasible, nil
				}
			}
			return cons.Feasible, nil
		},
		EnforceLP: func(h *cons.Handler, c *cons.Constraint) (cons.Result, error) {
			return cons.Feasible, nil
		},
	}
}

// Register builds a handler for rows and adds it, plus one constraint
// wrapping it, to registry.
func Register(registry *cons.Registry, rows []Row) error {
	h := NewHandler(rows)
	if err := registry.AddHandler(h); err != nil {
		return err
	}
	return registry.Add(cons.NewConstraint("rows", h, nil))
}
