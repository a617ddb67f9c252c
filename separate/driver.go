// Package separate implements the separator driver (C10): priority-ordered
// invocation of separator plugins and constraint handlers' separation
// callbacks after an LP solve, scoring cuts by efficacy and splitting them
// into a persistent global pool versus subtree-local cuts.
package separate

import (
	"sort"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/obslog"
	"github.com/opencip/cip/lprelax"
	"github.com/opencip/cip/node"
	"github.com/opencip/cip/plugin"
)

var log = obslog.For("separate")

// Pool holds cuts across their lifetime: global cuts persist across the
// whole search; local cuts are scoped to one subtree and dropped when the
// driver leaves it.
type Pool struct {
	Global []plugin.Cut
	local  map[int][]plugin.Cut // keyed by the subtree root's depth
}

// NewPool creates an empty cut pool.
func NewPool() *Pool {
	return &Pool{local: make(map[int][]plugin.Cut)}
}

// AddLocal records a local cut scoped to the subtree rooted at depth.
func (p *Pool) AddLocal(depth int, c plugin.Cut) {
	p.local[depth] = append(p.local[depth], c)
}

// DropSubtree discards every local cut scoped to depth, called when the
// engine backtracks out of that subtree.
func (p *Pool) DropSubtree(depth int) {
	delete(p.local, depth)
}

// EfficacyThreshold is the minimum violation/norm score a cut must clear
// to be kept (§4.10 "must be efficacious").
const EfficacyThreshold = 1e-6

// Driver runs one separation round at focus's current LP-optimal point:
// separator plugins (by priority) then constraint handlers' Separate
// callback, pool-sorting accepted cuts by Cut.Local and pushing each one
// into the shared LP as a row so the next Solve actually sees it.
type Driver struct {
	Separators *plugin.Registry[plugin.Separator]
	Handlers   *cons.Registry
	Pool       *Pool
	LP         lprelax.LP

	// globalRows/localRows remember the LP row index each pooled cut was
	// added at, so DropSubtree can RemoveRow the local ones on backtrack
	// without disturbing rows that came before or after them.
	globalRows []int
	localRows  map[int][]int
}

// New creates a separation driver over the given separator and handler
// registries, with a fresh cut pool, pushing accepted cuts into lp.
func New(separators *plugin.Registry[plugin.Separator], handlers *cons.Registry, lp lprelax.LP) *Driver {
	return &Driver{
		Separators: separators,
		Handlers:   handlers,
		Pool:       NewPool(),
		LP:         lp,
		localRows:  make(map[int][]int),
	}
}

// Round runs one separation round, returning the accepted cuts (already
// filed into the pool and added to the LP as rows) and whether any were
// efficacious.
func (d *Driver) Round(focus *node.Node) ([]plugin.Cut, bool, error) {
	var accepted []plugin.Cut
	handlerProductive := false

	for _, s := range d.Separators.ByPriority() {
		cuts, res, err := s.Separate(focus)
		if err != nil {
			return accepted, false, err
		}
		if res == cons.Cutoff {
			log.WithField("node_id", focus.ID).WithField("separator", s.Name()).Debug("separation cutoff")
			return accepted, false, nil
		}
		for _, c := range cuts {
			if c.Efficacy() < EfficacyThreshold {
				continue
			}
			accepted = append(accepted, c)
			row := d.LP.AddDenseRow(c.Lower, c.Coeffs, c.Upper)
			if c.Local {
				d.Pool.AddLocal(focus.Depth, c)
				d.localRows[focus.Depth] = append(d.localRows[focus.Depth], row)
			} else {
				d.Pool.Global = append(d.Pool.Global, c)
				d.globalRows = append(d.globalRows, row)
			}
		}
	}

	for _, h := range d.Handlers.Handlers() {
		if h.Separate == nil {
			continue
		}
		for _, c := range h.Constraints() {
			if !c.Active() || !c.Enabled() || !c.Has(cons.FlagSeparate) {
				continue
			}
			res, err := h.Separate(h, c)
			if err != nil {
				return accepted, false, err
			}
			switch res {
			case cons.Cutoff:
				log.WithField("node_id", focus.ID).WithField("handler", h.Name).Debug("separation cutoff")
				return accepted, false, nil
			case cons.Separated, cons.ConsAdded:
				handlerProductive = true
			}
		}
	}

	return accepted, len(accepted) > 0 || handlerProductive, nil
}

// DropSubtree removes every LP row added for a cut local to depth and
// discards the cuts themselves, called when the engine backtracks out of
// the subtree rooted at that depth. Global cuts' rows are never removed —
// they stay in the LP for the rest of the search.
func (d *Driver) DropSubtree(depth int) error {
	rows := d.localRows[depth]
	if len(rows) == 0 {
		d.Pool.DropSubtree(depth)
		return nil
	}
	sorted := append([]int(nil), rows...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, row := range sorted {
		if err := d.LP.RemoveRow(row); err != nil {
			return err
		}
		d.shiftRowsAbove(row)
	}
	delete(d.localRows, depth)
	d.Pool.DropSubtree(depth)
	return nil
}

// shiftRowsAbove decrements every tracked row index greater than removed,
// mirroring the index shift lprelax.LP.RemoveRow performs on the rows that
// follow the one it removes.
func (d *Driver) shiftRowsAbove(removed int) {
	for i, r := range d.globalRows {
		if r > removed {
			d.globalRows[i]--
		}
	}
	for depth, rows := range d.localRows {
		for i, r := range rows {
			if r > removed {
				rows[i]--
			}
		}
		d.localRows[depth] = rows
	}
}
