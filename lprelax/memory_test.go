package lprelax

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimizeWithEqualityRow(t *testing.T) {
	m := NewMemoryLP(2)
	require.NoError(t, m.SetColBounds(0, 0, 10))
	require.NoError(t, m.SetColBounds(1, 0, 10))
	require.NoError(t, m.SetObjective([]float64{1, 0}, false))
	m.AddEqRow([]float64{1, 1}, 10)

	status, err := m.Solve()
	require.NoError(t, err)
	require.Equal(t, Optimal, status)
	assert.InDelta(t, 0.0, m.ObjectiveValue(), 1e-6)
	vals := m.PrimalValues()
	assert.InDelta(t, 0.0, vals[0], 1e-6)
	assert.InDelta(t, 10.0, vals[1], 1e-6)
}

func TestMaximizeWithLeRow(t *testing.T) {
	m := NewMemoryLP(2)
	require.NoError(t, m.SetColBounds(0, 0, 3))
	require.NoError(t, m.SetColBounds(1, 0, 3))
	require.NoError(t, m.SetObjective([]float64{2, 3}, true))
	m.AddLeRow([]float64{1, 1}, 4)

	status, err := m.Solve()
	require.NoError(t, err)
	require.Equal(t, Optimal, status)
	assert.InDelta(t, 11.0, m.ObjectiveValue(), 1e-6)
	vals := m.PrimalValues()
	assert.InDelta(t, 1.0, vals[0], 1e-6)
	assert.InDelta(t, 3.0, vals[1], 1e-6)
}

func TestInfeasibleRowProducesFarkasRay(t *testing.T) {
	m := NewMemoryLP(1)
	require.NoError(t, m.SetColBounds(0, 0, 3))
	require.NoError(t, m.SetObjective([]float64{1}, false))
	m.AddGeRow([]float64{1}, 5) // x0 >= 5 but x0 <= 3

	status, err := m.Solve()
	require.NoError(t, err)
	assert.Equal(t, Infeasible, status)

	ray, err := m.FarkasRay()
	require.NoError(t, err)
	require.Len(t, ray, 1)
	assert.NotEqual(t, 0.0, ray[0])
}

func TestUnboundedObjective(t *testing.T) {
	m := NewMemoryLP(1)
	require.NoError(t, m.SetColBounds(0, 0, math.Inf(1)))
	require.NoError(t, m.SetObjective([]float64{1}, true))

	status, err := m.Solve()
	require.NoError(t, err)
	assert.Equal(t, Unbounded, status)
}

func TestStartEndDiveRestoresState(t *testing.T) {
	m := NewMemoryLP(1)
	require.NoError(t, m.SetColBounds(0, 0, 10))
	require.NoError(t, m.SetObjective([]float64{1}, false))
	m.AddLeRow([]float64{1}, 5)

	require.NoError(t, m.StartDive())
	require.NoError(t, m.SetColBounds(0, 2, 10))
	m.AddLeRow([]float64{1}, 3)
	assert.Equal(t, 2, m.NumRows())

	require.NoError(t, m.EndDive())
	assert.Equal(t, 1, m.NumRows())
	assert.Equal(t, 0.0, m.ColLower(0))
	assert.False(t, m.InDive())
}

func TestStartDiveRejectsNesting(t *testing.T) {
	m := NewMemoryLP(1)
	require.NoError(t, m.StartDive())
	assert.Error(t, m.StartDive())
}

func TestRemoveRow(t *testing.T) {
	m := NewMemoryLP(1)
	m.AddLeRow([]float64{1}, 1)
	m.AddLeRow([]float64{1}, 2)
	require.NoError(t, m.RemoveRow(0))
	require.Equal(t, 1, m.NumRows())
	assert.Equal(t, 2.0, m.RowUpper(0))
}
