// Package model implements the variable & domain model (C2): variables
// with original/transformed duality, bounds, holes, integrality, and
// variable-bound (VUB/VLB) relations.
package model

import (
	"math"

	"github.com/opencip/cip/internal/corerr"
)

// Kind classifies a variable's integrality.
type Kind int

const (
	Binary Kind = iota
	Integer
	ImplicitInteger
	Continuous
)

func (k Kind) String() string {
	switch k {
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	case ImplicitInteger:
		return "implicit-integer"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// IsIntegral reports whether values of this kind must be whole numbers.
func (k Kind) IsIntegral() bool {
	return k == Binary || k == Integer || k == ImplicitInteger
}

// Status is a transformed variable's place in the aggregation graph.
type Status int

const (
	Active Status = iota
	Fixed
	Aggregated
	MultiAggregated
	Negated
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Fixed:
		return "fixed"
	case Aggregated:
		return "aggregated"
	case MultiAggregated:
		return "multi-aggregated"
	case Negated:
		return "negated"
	default:
		return "unknown"
	}
}

// Original is an original-space variable as the problem was built. Index is
// stable within the owning problem's variable space.
type Original struct {
	Index       int
	Name        string
	Kind        Kind
	ObjCoef     float64
	Transformed *Transformed
}

// Transformed is the active-set representative produced when presolve
// transforms an Original. At most one Transformed exists per Original
// (§3 "at most one transformed variable").
type Transformed struct {
	Index    int
	Original *Original
	Kind     Kind

	Status Status
	Domain Domain

	// Aggregation target for Status == Aggregated: value == AggCoef*AggTo + AggOffset.
	AggCoef   float64
	AggOffset float64
	AggTo     *Transformed

	// MultiAgg holds the Σ aᵢ·yᵢ + c representation for Status == MultiAggregated.
	MultiAgg *MultiAggregation

	VUBs []VarBound
	VLBs []VarBound
}

// MultiAggregation is value == Σ Coefs[i]*Vars[i] + Const.
type MultiAggregation struct {
	Vars   []*Transformed
	Coefs  []float64
	Const  float64
}

// NewOriginal creates an original-space variable. It has no Transformed
// representative until Transform is called (typically by presolve).
func NewOriginal(index int, name string, kind Kind, objCoef float64) *Original {
	return &Original{Index: index, Name: name, Kind: kind, ObjCoef: objCoef}
}

// Transform produces this Original's Transformed representative, entering
// the active set with the given global bounds. Calling Transform twice is
// an invariant violation (at most one transformed variable per original).
func (o *Original) Transform(index int, lower, upper float64) (*Transformed, error) {
	if o.Transformed != nil {
		return nil, corerr.New(corerr.InvalidData, "model.Transform: variable already transformed")
	}
	t := &Transformed{
		Index:    index,
		Original: o,
		Kind:     o.Kind,
		Status:   Active,
		Domain:   newDomain(o.Kind, lower, upper),
	}
	o.Transformed = t
	return t, nil
}

// IsActive reports whether the variable still participates directly in the
// transformed problem.
func (t *Transformed) IsActive() bool { return t.Status == Active }

// infinite bound sentinels, matching the LP relaxation's convention (C4).
var (
	NegInf = math.Inf(-1)
	PosInf = math.Inf(1)
)
