package linrows

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencip/cip/cons"
)

func TestRegisterChecksEveryRow(t *testing.T) {
	registry := cons.NewRegistry()
	rows := []Row{
		{Name: "r1", Coeffs: []float64{1, 1}, Lower: 1, Upper: math.Inf(1)},
		{Name: "r2", Coeffs: []float64{1, 0}, Lower: math.Inf(-1), Upper: 0},
	}
	require.NoError(t, Register(registry, rows))

	res, _, err := registry.Check([]float64{0, 1}, true, true)
	require.NoError(t, err)
	assert.Equal(t, cons.Feasible, res)

	res, _, err = registry.Check([]float64{1, 1}, true, true)
	require.NoError(t, err)
	assert.Equal(t, cons.Infeasible, res, "r2 forbids x0=1")
}

func TestCheckIgnoresRowsWhenCheckLPRowsFalse(t *testing.T) {
	registry := cons.NewRegistry()
	rows := []Row{{Name: "r1", Coeffs: []float64{1}, Lower: 5, Upper: 5}}
	require.NoError(t, Register(registry, rows))

	res, _, err := registry.Check([]float64{0}, true, false)
	require.NoError(t, err)
	assert.Equal(t, cons.Feasible, res)
}
