package cons

import (
	"sort"

	"github.com/opencip/cip/internal/corerr"
)

// Registry holds the set of known handlers, kept in three separately-sorted
// priority orders (§4.3) so the enforce/check/propagate driver loops can
// iterate each without re-sorting.
type Registry struct {
	byName map[string]*Handler

	bySepa []*Handler
	byEnfo []*Handler
	byChk  []*Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Handler)}
}

// AddHandler registers h and calls its Init hook, if any. Re-registering an
// existing name is rejected.
func (r *Registry) AddHandler(h *Handler) error {
	if _, ok := r.byName[h.Name]; ok {
		return corerr.New(corerr.InvalidData, "cons.AddHandler: duplicate handler name "+h.Name)
	}
	r.byName[h.Name] = h
	r.bySepa = insertSorted(r.bySepa, h, func(a, b *Handler) bool { return a.SepaPriority > b.SepaPriority })
	r.byEnfo = insertSorted(r.byEnfo, h, func(a, b *Handler) bool { return a.EnfoPriority > b.EnfoPriority })
	r.byChk = insertSorted(r.byChk, h, func(a, b *Handler) bool { return a.ChkPriority > b.ChkPriority })
	if h.Init != nil {
		return h.Init(h)
	}
	return nil
}

func insertSorted(list []*Handler, h *Handler, less func(a, b *Handler) bool) []*Handler {
	list = append(list, h)
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}

// Handler looks up a registered handler by name.
func (r *Registry) Handler(name string) (*Handler, error) {
	h, ok := r.byName[name]
	if !ok {
		return nil, corerr.New(corerr.PluginNotFound, "cons.Handler: "+name)
	}
	return h, nil
}

// Handlers returns every registered handler, in no particular order.
func (r *Registry) Handlers() []*Handler {
	out := make([]*Handler, 0, len(r.byName))
	for _, h := range r.byName {
		out = append(out, h)
	}
	return out
}

// Add registers c with its handler's constraint list and runs the handler's
// Transform and Active hooks, if present.
func (r *Registry) Add(c *Constraint) error {
	c.Handler.constraints = append(c.Handler.constraints, c)
	c.set(FlagActive)
	if c.Handler.Transform != nil {
		if err := c.Handler.Transform(c.Handler, c); err != nil {
			return err
		}
	}
	if c.Handler.Active != nil {
		return c.Handler.Active(c.Handler, c)
	}
	return nil
}

// Deactivate clears the active flag and runs the handler's Deactive hook.
func (c *Constraint) Deactivate() error {
	if !c.Active() {
		return nil
	}
	c.clear(FlagActive)
	if c.Handler.Deactive != nil {
		return c.Handler.Deactive(c.Handler, c)
	}
	return nil
}

// Activate sets the active flag and runs the handler's Active hook.
func (c *Constraint) Activate() error {
	if c.Active() {
		return nil
	}
	c.set(FlagActive)
	if c.Handler.Active != nil {
		return c.Handler.Active(c.Handler, c)
	}
	return nil
}

// Disable clears the enabled flag and runs the handler's Disable hook. A
// disabled constraint is skipped by all three driver loops even while
// active (§4.4's dive semantics rely on this).
func (c *Constraint) Disable() error {
	if !c.Enabled() {
		return nil
	}
	c.clear(FlagEnabled)
	if c.Handler.Disable != nil {
		return c.Handler.Disable(c.Handler, c)
	}
	return nil
}

// Enable sets the enabled flag and runs the handler's Enable hook.
func (c *Constraint) Enable() error {
	if c.Enabled() {
		return nil
	}
	c.set(FlagEnabled)
	if c.Handler.Enable != nil {
		return c.Handler.Enable(c.Handler, c)
	}
	return nil
}
