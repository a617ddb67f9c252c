package cons

// Flag is a bit in a Constraint's flag word. Packed into a single uint32,
// grounded on the teacher's clause flag word (learned/locked/lbd packed
// into one uint32 in solver/clause.go).
type Flag uint32

const (
	FlagSeparate Flag = 1 << iota
	FlagEnforce
	FlagCheck
	FlagPropagate
	FlagOriginal
	FlagActive
	FlagEnabled
)

// Constraint is a single constraint instance: the handler that owns it, an
// opaque payload (handler-specific data, e.g. coefficients for a linear
// constraint), a usage counter, and a packed flag word.
type Constraint struct {
	Name    string
	Handler *Handler
	Payload interface{}

	flags Flag
	uses  int
}

// NewConstraint creates a constraint owned by h, flagged original+active+enabled,
// with the separate/enforce/check/propagate flags set according to whether h
// fills in the corresponding callback slot.
func NewConstraint(name string, h *Handler, payload interface{}) *Constraint {
	c := &Constraint{Name: name, Handler: h, Payload: payload}
	c.flags = FlagOriginal | FlagActive | FlagEnabled
	if h.Separate != nil {
		c.flags |= FlagSeparate
	}
	if h.EnforceLP != nil || h.EnforcePseudo != nil {
		c.flags |= FlagEnforce
	}
	if h.Check != nil {
		c.flags |= FlagCheck
	}
	if h.Propagate != nil && h.PropFreq != 0 {
		c.flags |= FlagPropagate
	}
	return c
}

// Has reports whether f is set.
func (c *Constraint) Has(f Flag) bool { return c.flags&f != 0 }

func (c *Constraint) set(f Flag)   { c.flags |= f }
func (c *Constraint) clear(f Flag) { c.flags &^= f }

// Active reports whether the constraint currently participates in search.
func (c *Constraint) Active() bool { return c.Has(FlagActive) }

// Enabled reports whether the constraint's propagation/separation/enforcement
// callbacks currently run (a constraint can be active but disabled, e.g.
// during a dive, §4.4).
func (c *Constraint) Enabled() bool { return c.Has(FlagEnabled) }

// AddUse increments the reference count kept when the same constraint is
// shared across multiple nodes via aggregation bookkeeping.
func (c *Constraint) AddUse() { c.uses++ }

// Uses returns the current reference count.
func (c *Constraint) Uses() int { return c.uses }
