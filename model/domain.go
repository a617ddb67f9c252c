package model

import (
	"math"
	"sort"

	"github.com/opencip/cip/internal/corerr"
)

// Hole is a disjoint half-open interval [Lower, Upper) excluded from a
// variable's domain, inside [lower, upper] (§4.2).
type Hole struct {
	Lower, Upper float64
}

// Domain holds a variable's global and local bounds plus its holes.
// Global bounds may only change outside search (§4.2); local bounds are
// recorded on the current node's change list and undone on backtrack.
type Domain struct {
	Kind Kind

	GlobalLower, GlobalUpper float64
	LocalLower, LocalUpper   float64

	Holes []Hole
}

func newDomain(kind Kind, lower, upper float64) Domain {
	d := Domain{Kind: kind, GlobalLower: lower, GlobalUpper: upper, LocalLower: lower, LocalUpper: upper}
	return d
}

// Validate checks the domain invariants from §4.2: lower <= upper, integral
// global bounds (or infinite) for integer kinds, and disjoint holes inside
// [lower, upper].
func (d *Domain) Validate() error {
	if d.LocalLower > d.LocalUpper {
		return corerr.New(corerr.InvalidData, "model.Domain.Validate: lower > upper")
	}
	if d.GlobalLower > d.GlobalUpper {
		return corerr.New(corerr.InvalidData, "model.Domain.Validate: global lower > global upper")
	}
	if d.Kind.IsIntegral() {
		if !isIntegralOrInf(d.GlobalLower) || !isIntegralOrInf(d.GlobalUpper) {
			return corerr.New(corerr.InvalidData, "model.Domain.Validate: non-integral global bound on an integral variable")
		}
	}
	sorted := make([]Hole, len(d.Holes))
	copy(sorted, d.Holes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lower < sorted[j].Lower })
	for i, h := range sorted {
		if h.Lower >= h.Upper {
			return corerr.New(corerr.InvalidData, "model.Domain.Validate: degenerate hole")
		}
		if h.Lower < d.LocalLower || h.Upper > d.LocalUpper {
			return corerr.New(corerr.InvalidData, "model.Domain.Validate: hole outside bounds")
		}
		if i > 0 && h.Lower < sorted[i-1].Upper {
			return corerr.New(corerr.InvalidData, "model.Domain.Validate: overlapping holes")
		}
	}
	return nil
}

func isIntegralOrInf(v float64) bool {
	if math.IsInf(v, 0) {
		return true
	}
	return v == math.Trunc(v)
}

// Fixed reports whether the local bounds have collapsed to a single point.
func (d *Domain) Fixed() bool { return d.LocalLower == d.LocalUpper }

// Contains reports whether v lies within the local bounds and outside every
// hole.
func (d *Domain) Contains(v float64) bool {
	if v < d.LocalLower || v > d.LocalUpper {
		return false
	}
	for _, h := range d.Holes {
		if v >= h.Lower && v < h.Upper {
			return false
		}
	}
	return true
}
