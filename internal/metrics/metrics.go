// Package metrics exposes the search engine's §6 result surface as
// Prometheus instruments. An engine with no registerer still updates the
// counters; the plain getters on engine.Engine read the same values, so
// metrics are always a side effect, never a source of truth.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set groups the instruments updated once per node / LP solve / separation
// round / cut. Registering is optional and nil-safe.
type Set struct {
	NodeCount        prometheus.Counter
	LPSolveCount     prometheus.Counter
	SeparationRounds prometheus.Counter
	CutsGenerated    prometheus.Counter
	DualBound        prometheus.Gauge
	PrimalBound      prometheus.Gauge
}

// New builds an unregistered Set. Call Register to attach it to a
// prometheus.Registerer; skip it entirely for a headless embed.
func New() *Set {
	return &Set{
		NodeCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cip_node_count_total",
			Help: "Number of branch-and-bound nodes processed.",
		}),
		LPSolveCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cip_lp_solve_count_total",
			Help: "Number of LP relaxation solves performed.",
		}),
		SeparationRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cip_separation_rounds_total",
			Help: "Number of separation rounds run.",
		}),
		CutsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cip_cuts_generated_total",
			Help: "Number of cutting planes generated and added to the LP.",
		}),
		DualBound: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cip_dual_bound",
			Help: "Current global dual (lower) bound.",
		}),
		PrimalBound: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cip_primal_bound",
			Help: "Current global primal (upper) bound from the incumbent.",
		}),
	}
}

// Register attaches every instrument in s to reg. A nil s or reg is a no-op,
// so embedders that don't care about metrics never pay for registration.
func (s *Set) Register(reg prometheus.Registerer) {
	if s == nil || reg == nil {
		return
	}
	reg.MustRegister(s.NodeCount, s.LPSolveCount, s.SeparationRounds, s.CutsGenerated, s.DualBound, s.PrimalBound)
}
