package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTransform(t *testing.T, o *Original, index int, lower, upper float64) *Transformed {
	tr, err := o.Transform(index, lower, upper)
	require.NoError(t, err)
	return tr
}

func TestDomainValidateBounds(t *testing.T) {
	d := newDomain(Continuous, 0, 10)
	require.NoError(t, d.Validate())

	d.LocalLower = 11
	assert.Error(t, d.Validate())
}

func TestDomainValidateIntegralGlobalBounds(t *testing.T) {
	d := newDomain(Integer, 0, 10)
	require.NoError(t, d.Validate())

	d.GlobalUpper = 9.5
	assert.Error(t, d.Validate())

	d.GlobalUpper = PosInf
	assert.NoError(t, d.Validate())
}

func TestDomainHoleValidation(t *testing.T) {
	d := newDomain(Continuous, 0, 10)

	d.Holes = []Hole{{Lower: 3, Upper: 5}}
	assert.NoError(t, d.Validate())

	d.Holes = []Hole{{Lower: 5, Upper: 3}}
	assert.Error(t, d.Validate())

	d.Holes = []Hole{{Lower: -1, Upper: 2}}
	assert.Error(t, d.Validate())

	d.Holes = []Hole{{Lower: 11, Upper: 12}}
	assert.Error(t, d.Validate())

	d.Holes = []Hole{{Lower: 2, Upper: 4}, {Lower: 3, Upper: 6}}
	assert.Error(t, d.Validate())

	d.Holes = []Hole{{Lower: 2, Upper: 4}, {Lower: 4, Upper: 6}}
	assert.NoError(t, d.Validate())
}

func TestDomainContains(t *testing.T) {
	d := newDomain(Continuous, 0, 10)
	d.Holes = []Hole{{Lower: 3, Upper: 5}}

	assert.True(t, d.Contains(0))
	assert.True(t, d.Contains(2.9))
	assert.False(t, d.Contains(3))
	assert.False(t, d.Contains(4.9))
	assert.True(t, d.Contains(5))
	assert.False(t, d.Contains(-0.1))
	assert.False(t, d.Contains(10.1))
}

func TestAddVUBRejectsNonBinaryZ(t *testing.T) {
	ox := NewOriginal(0, "x", Continuous, 0)
	x := mustTransform(t, ox, 0, 0, 100)
	oz := NewOriginal(1, "z", Integer, 0)
	z := mustTransform(t, oz, 1, 0, 5)

	err := AddVUB(x, z, 10, 0)
	assert.Error(t, err)
}

func TestAddVUBRejectsNonRedundantFree(t *testing.T) {
	ox := NewOriginal(0, "x", Continuous, 0)
	x := mustTransform(t, ox, 0, 0, 10)
	oz := NewOriginal(1, "z", Binary, 0)
	z := mustTransform(t, oz, 1, 0, 1)

	// implied = max(b, a+b) = max(0, 12) = 12 >= GlobalUpper(10): rejected.
	err := AddVUB(x, z, 12, 0)
	assert.Error(t, err)

	// implied = max(0, 8) = 8 < 10: accepted.
	require.NoError(t, AddVUB(x, z, 8, 0))
	require.Len(t, x.VUBs, 1)
	assert.Equal(t, 8.0, x.VUBs[0].ImpliedBound(1))
	assert.Equal(t, 0.0, x.VUBs[0].ImpliedBound(0))
}

func TestAddVLBRejectsNonRedundantFree(t *testing.T) {
	ox := NewOriginal(0, "x", Continuous, 0)
	x := mustTransform(t, ox, 0, -10, 100)
	oz := NewOriginal(1, "z", Binary, 0)
	z := mustTransform(t, oz, 1, 0, 1)

	err := AddVLB(x, z, -12, 0)
	assert.Error(t, err)

	require.NoError(t, AddVLB(x, z, 8, 0))
	assert.Equal(t, 8.0, x.VLBs[0].ImpliedBound(1))
}

func activeValueOf(values map[*Transformed]float64) func(*Transformed) float64 {
	return func(t *Transformed) float64 { return values[t] }
}

func TestExpandValueActiveAndFixed(t *testing.T) {
	oa := NewOriginal(0, "a", Continuous, 0)
	a := mustTransform(t, oa, 0, 0, 10)
	ob := NewOriginal(1, "b", Continuous, 0)
	b := mustTransform(t, ob, 1, 0, 10)
	b.Fix(4)

	av := activeValueOf(map[*Transformed]float64{a: 3})

	v, err := ExpandValue(a, av)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = ExpandValue(b, av)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestExpandValueAggregatedAndNegated(t *testing.T) {
	oa := NewOriginal(0, "a", Continuous, 0)
	a := mustTransform(t, oa, 0, 0, 10)
	ob := NewOriginal(1, "b", Continuous, 0)
	b := mustTransform(t, ob, 1, 0, 10)
	oc := NewOriginal(2, "c", Continuous, 0)
	c := mustTransform(t, oc, 2, 0, 10)

	// b == 2*a + 1
	require.NoError(t, b.Aggregate(2, a, 1))
	// c == -b
	require.NoError(t, c.Negate(b))

	av := activeValueOf(map[*Transformed]float64{a: 3})

	v, err := ExpandValue(b, av)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v) // 2*3+1

	v, err = ExpandValue(c, av)
	require.NoError(t, err)
	assert.Equal(t, -7.0, v)
}

func TestExpandValueMultiAggregated(t *testing.T) {
	oa := NewOriginal(0, "a", Continuous, 0)
	a := mustTransform(t, oa, 0, 0, 10)
	ob := NewOriginal(1, "b", Continuous, 0)
	b := mustTransform(t, ob, 1, 0, 10)
	oc := NewOriginal(2, "c", Continuous, 0)
	c := mustTransform(t, oc, 2, 0, 10)

	// c == 2*a + 3*b + 1
	require.NoError(t, c.MultiAggregateTo([]*Transformed{a, b}, []float64{2, 3}, 1))

	av := activeValueOf(map[*Transformed]float64{a: 2, b: 5})

	v, err := ExpandValue(c, av)
	require.NoError(t, err)
	assert.Equal(t, 2*2+3*5+1.0, v)
}

func TestExpandValueCycleDetected(t *testing.T) {
	oa := NewOriginal(0, "a", Continuous, 0)
	a := mustTransform(t, oa, 0, 0, 10)
	ob := NewOriginal(1, "b", Continuous, 0)
	b := mustTransform(t, ob, 1, 0, 10)

	require.NoError(t, a.Aggregate(1, b, 0))
	require.NoError(t, b.Aggregate(1, a, 0))

	_, err := ExpandValue(a, activeValueOf(nil))
	assert.Error(t, err)
}

func TestAggregateRejectsSelfReference(t *testing.T) {
	oa := NewOriginal(0, "a", Continuous, 0)
	a := mustTransform(t, oa, 0, 0, 10)
	assert.Error(t, a.Aggregate(1, a, 0))
	assert.Error(t, a.Negate(a))
}

func TestMultiAggregateRejectsLengthMismatchAndSelfReference(t *testing.T) {
	oa := NewOriginal(0, "a", Continuous, 0)
	a := mustTransform(t, oa, 0, 0, 10)
	ob := NewOriginal(1, "b", Continuous, 0)
	b := mustTransform(t, ob, 1, 0, 10)

	assert.Error(t, a.MultiAggregateTo([]*Transformed{b}, []float64{1, 2}, 0))
	assert.Error(t, a.MultiAggregateTo([]*Transformed{a}, []float64{1}, 0))
}

func TestSetLocalBoundRejectedOnNonActive(t *testing.T) {
	oa := NewOriginal(0, "a", Continuous, 0)
	a := mustTransform(t, oa, 0, 0, 10)
	assert.False(t, a.SetLocalBoundRejected())

	a.Fix(5)
	assert.True(t, a.SetLocalBoundRejected())

	_, err := a.SetLocalLower(1)
	assert.Error(t, err)
}

func TestTransformRejectsDoubleTransform(t *testing.T) {
	o := NewOriginal(0, "x", Continuous, 0)
	mustTransform(t, o, 0, 0, 10)
	_, err := o.Transform(1, 0, 10)
	assert.Error(t, err)
}

func TestSetGlobalBoundsNarrowsLocal(t *testing.T) {
	o := NewOriginal(0, "x", Continuous, 0)
	x := mustTransform(t, o, 0, 0, 10)

	old, err := x.SetGlobalUpper(6)
	require.NoError(t, err)
	assert.Equal(t, 10.0, old)
	assert.Equal(t, 6.0, x.Domain.LocalUpper)

	old, err = x.SetGlobalLower(2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, old)
	assert.Equal(t, 2.0, x.Domain.LocalLower)
}

func TestAddRemoveHole(t *testing.T) {
	o := NewOriginal(0, "x", Continuous, 0)
	x := mustTransform(t, o, 0, 0, 10)

	x.AddHole(Hole{Lower: 3, Upper: 4})
	require.Len(t, x.Domain.Holes, 1)
	require.NoError(t, x.Domain.Validate())

	x.RemoveHole()
	assert.Len(t, x.Domain.Holes, 0)

	x.RemoveHole() // no-op on empty
	assert.Len(t, x.Domain.Holes, 0)
}
