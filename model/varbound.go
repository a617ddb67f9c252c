package model

import (
	"math"

	"github.com/opencip/cip/internal/corerr"
)

// VarBound records a variable-bound relation x </>= A*Z + B, with Z binary
// (§4.2). Upper is true for a VUB (x <= A*Z+B), false for a VLB
// (x >= A*Z+B).
type VarBound struct {
	Z     *Transformed
	A, B  float64
	Upper bool
}

// AddVUB appends a VUB x <= a*z+b to x's list, enforcing that z is binary
// and that the implication is redundant-free: the implied bound must be
// strictly tighter than x's current unconditional upper bound, otherwise
// the relation carries no information and is rejected.
func AddVUB(x *Transformed, z *Transformed, a, b float64) error {
	if z.Kind != Binary {
		return corerr.New(corerr.InvalidData, "model.AddVUB: z must be binary")
	}
	// Worst case over z in {0,1}: the implied upper bound is max(b, a+b).
	implied := math.Max(b, a+b)
	if implied >= x.Domain.GlobalUpper {
		return corerr.New(corerr.InvalidData, "model.AddVUB: not redundant-free")
	}
	x.VUBs = append(x.VUBs, VarBound{Z: z, A: a, B: b, Upper: true})
	return nil
}

// AddVLB appends a VLB x >= a*z+b to x's list, under the same z-binary and
// redundant-free requirements as AddVUB.
func AddVLB(x *Transformed, z *Transformed, a, b float64) error {
	if z.Kind != Binary {
		return corerr.New(corerr.InvalidData, "model.AddVLB: z must be binary")
	}
	implied := math.Min(b, a+b)
	if implied <= x.Domain.GlobalLower {
		return corerr.New(corerr.InvalidData, "model.AddVLB: not redundant-free")
	}
	x.VLBs = append(x.VLBs, VarBound{Z: z, A: a, B: b, Upper: false})
	return nil
}

// ImpliedBound evaluates a VarBound at a given (possibly fractional) value
// of Z, used by propagators (§4.9) and mixing separators (§4.10).
func (vb VarBound) ImpliedBound(zVal float64) float64 {
	return vb.A*zVal + vb.B
}
