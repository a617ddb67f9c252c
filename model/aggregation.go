package model

import "github.com/opencip/cip/internal/corerr"

// Fix collapses the variable to a single value, represented by setting its
// global and local lower and upper bounds all to value. Bound changes on a fixed variable
// are rejected by design (the variable no longer has a domain to narrow).
func (t *Transformed) Fix(value float64) {
	t.Status = Fixed
	t.Domain.LocalLower, t.Domain.LocalUpper = value, value
	t.Domain.GlobalLower, t.Domain.GlobalUpper = value, value
}

// Aggregate rewrites t to value == a*to + b. Per §4.2, any subsequent bound
// change attempt on t must be rejected; callers check t.Status before
// calling a bound-change operation.
func (t *Transformed) Aggregate(a float64, to *Transformed, b float64) error {
	if t == to {
		return corerr.New(corerr.InvalidData, "model.Aggregate: self-aggregation")
	}
	t.Status = Aggregated
	t.AggCoef, t.AggTo, t.AggOffset = a, to, b
	return nil
}

// MultiAggregateTo rewrites t to value == Σ coefs[i]*vars[i] + constant.
func (t *Transformed) MultiAggregateTo(vars []*Transformed, coefs []float64, constant float64) error {
	if len(vars) != len(coefs) {
		return corerr.New(corerr.InvalidData, "model.MultiAggregateTo: vars/coefs length mismatch")
	}
	for _, v := range vars {
		if v == t {
			return corerr.New(corerr.InvalidData, "model.MultiAggregateTo: self-reference")
		}
	}
	t.Status = MultiAggregated
	t.MultiAgg = &MultiAggregation{Vars: vars, Coefs: coefs, Const: constant}
	return nil
}

// Negate rewrites t to value == -to (a special case of Aggregate with
// a=-1, b=0, kept as its own Status since negation is common enough in
// presolve to warrant a dedicated, cheaper representation).
func (t *Transformed) Negate(to *Transformed) error {
	if t == to {
		return corerr.New(corerr.InvalidData, "model.Negate: self-reference")
	}
	t.Status = Negated
	t.AggTo = to
	return nil
}

// maxChainDepth bounds the walk in ExpandValue/OriginalValue; exceeding it
// means a cycle was introduced, an invariant violation (§4.2).
const maxChainDepth = 10000

// ExpandValue resolves t's value given a lookup function for active
// variables' values, walking the aggregation chain exactly once. A cycle
// (the chain does not reach an Active variable within maxChainDepth steps)
// is reported as InvalidData, per the §4.2 invariant.
func ExpandValue(t *Transformed, activeValue func(*Transformed) float64) (float64, error) {
	cur := t
	coef := 1.0
	offset := 0.0
	for depth := 0; depth < maxChainDepth; depth++ {
		switch cur.Status {
		case Active:
			return coef*activeValue(cur) + offset, nil
		case Fixed:
			return coef*cur.Domain.LocalLower + offset, nil
		case Negated:
			coef = -coef
			cur = cur.AggTo
		case Aggregated:
			offset += coef * cur.AggOffset
			coef *= cur.AggCoef
			cur = cur.AggTo
		case MultiAggregated:
			total := cur.MultiAgg.Const
			for i, v := range cur.MultiAgg.Vars {
				sub, err := ExpandValue(v, activeValue)
				if err != nil {
					return 0, err
				}
				total += cur.MultiAgg.Coefs[i] * sub
			}
			return coef*total + offset, nil
		default:
			return 0, corerr.New(corerr.InvalidData, "model.ExpandValue: unknown status")
		}
	}
	return 0, corerr.New(corerr.InvalidData, "model.ExpandValue: cycle detected in aggregation chain")
}

// SetLocalBoundRejected is true whenever t is not Active: local/global
// bound changes on a fixed, aggregated, multi-aggregated, or negated
// variable are rejected outright (§4.2).
func (t *Transformed) SetLocalBoundRejected() bool { return t.Status != Active }
