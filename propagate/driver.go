// Package propagate implements the propagation driver (C9): round-robin
// propagation of constraint handlers and propagator plugins to fixpoint,
// and a conflict-constraint-learning path adapted from 1st-UIP clause
// learning over a trail of bound changes.
package propagate

import (
	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/obslog"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/plugin"
)

var log = obslog.For("propagate")

// Driver runs C9's outer fixpoint loop over both constraint-handler
// propagate callbacks (cons.Registry.Propagate) and propagator plugins.
type Driver struct {
	Handlers    *cons.Registry
	Propagators *plugin.Registry[plugin.Propagator]
}

// New creates a propagation driver over the given handler and propagator
// registries.
func New(handlers *cons.Registry, propagators *plugin.Registry[plugin.Propagator]) *Driver {
	return &Driver{Handlers: handlers, Propagators: propagators}
}

// Run repeats rounds across handlers (depth-gated by PropFreq) and
// propagator plugins (same gating) until a round produces zero reductions
// or any participant signals Cutoff (§4.9).
func (d *Driver) Run(focus *node.Node) (cons.Result, error) {
	for round := 0; ; round++ {
		productive := false

		res, err := d.Handlers.Propagate(focus.Depth)
		if err != nil {
			return cons.Infeasible, err
		}
		if res == cons.Cutoff {
			log.WithField("node_id", focus.ID).Debug("propagation cutoff from constraint handler")
			return cons.Cutoff, nil
		}
		if res == cons.ReducedDomain || res == cons.ConsAdded {
			productive = true
		}

		for _, p := range d.Propagators.ByPriority() {
			if p.Frequency() <= 0 || focus.Depth%p.Frequency() != 0 {
				continue
			}
			before := len(focus.Bounds)
			res, err := p.Propagate(focus)
			if err != nil {
				return cons.Infeasible, err
			}
			if err := attachReasons(p, focus, before); err != nil {
				return cons.Infeasible, err
			}
			switch res {
			case cons.Cutoff:
				log.WithField("node_id", focus.ID).WithField("propagator", p.Name()).Debug("propagation cutoff")
				return cons.Cutoff, nil
			case cons.ReducedDomain, cons.ConsAdded:
				productive = true
			}
		}

		if !productive {
			return cons.Feasible, nil
		}
	}
}

// attachReasons fills in Reason on every bound change p added to focus
// during this Propagate call (index before onward), via p's own
// ResolvePropagation — so conflict analysis (§4.9) can later walk back
// through a deduction this propagator made instead of stopping at it.
func attachReasons(p plugin.Propagator, focus *node.Node, before int) error {
	for i := before; i < len(focus.Bounds); i++ {
		bc := &focus.Bounds[i]
		if bc.Reason != nil {
			continue
		}
		antecedents, err := p.ResolvePropagation(bc)
		if err != nil {
			return err
		}
		if len(antecedents) == 0 {
			continue
		}
		bc.Reason = &node.Reason{Deducer: p.Name(), Antecedents: antecedents}
	}
	return nil
}
