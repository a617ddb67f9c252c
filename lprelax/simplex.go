package lprelax

import (
	"math"

	"github.com/opencip/cip/internal/corerr"
)

// Solve runs a two-phase bounded-variable primal simplex over the
// homogeneous system A_full·y = 0, y = [x; s], where A_full = [A | -I] and
// the row bounds [RowLower,RowUpper] live on the slack variables s. Phase 1
// minimizes a composite infeasibility objective recomputed every iteration
// (cost +1/-1 per out-of-bounds basic variable); phase 2 runs a standard
// Dantzig-rule bounded simplex on the real objective with a bound-flip-aware
// ratio test.
func (m *MemoryLP) Solve() (Status, error) {
	n := m.numCols
	nr := len(m.rows)
	total := n + nr

	lower := make([]float64, total)
	upper := make([]float64, total)
	copy(lower, m.colLow)
	copy(upper, m.colUp)
	for i := 0; i < nr; i++ {
		lower[n+i] = m.rowLow[i]
		upper[n+i] = m.rowUp[i]
	}

	cost := make([]float64, total)
	sign := 1.0
	if m.maximize {
		sign = -1.0
	}
	for j := 0; j < n; j++ {
		cost[j] = sign * m.cost[j]
	}

	// tableau[i] = -A_full[i] in solved form w.r.t. the initial basis
	// (slacks), since B = -I and B^{-1} = -I.
	tableau := make([][]float64, nr)
	for i := 0; i < nr; i++ {
		row := make([]float64, total)
		for j := 0; j < n; j++ {
			row[j] = -m.rows[i][j]
		}
		row[n+i] = 1
		tableau[i] = row
	}

	atUpper := make([]bool, total)
	nbVal := make([]float64, total)
	for j := 0; j < total; j++ {
		switch {
		case !math.IsInf(lower[j], -1):
			nbVal[j] = lower[j]
			atUpper[j] = false
		case !math.IsInf(upper[j], 1):
			nbVal[j] = upper[j]
			atUpper[j] = true
		default:
			nbVal[j] = 0
		}
	}

	basis := make([]int, nr)
	for i := 0; i < nr; i++ {
		basis[i] = n + i
	}

	recomputeBasicValues := func() []float64 {
		val := make([]float64, nr)
		for i := 0; i < nr; i++ {
			sum := 0.0
			for j := 0; j < total; j++ {
				if j == basis[i] {
					continue
				}
				sum += tableau[i][j] * nbVal[j]
			}
			val[i] = -sum
			nbVal[basis[i]] = val[i]
		}
		return val
	}
	value := recomputeBasicValues()

	maxIter := maxIterMult * (total + 1)

	// --- Phase 1: drive basic variables into their bounds. ---
	for iter := 0; ; iter++ {
		infeasIdx := -1
		for i := 0; i < nr; i++ {
			if value[i] < lower[basis[i]]-eps || value[i] > upper[basis[i]]+eps {
				infeasIdx = i
				break
			}
		}
		if infeasIdx == -1 {
			break
		}
		if iter >= maxIter {
			return Error, phase1IterationLimit()
		}

		pc := make([]float64, nr)
		anyInfeasible := false
		for i := 0; i < nr; i++ {
			switch {
			case value[i] < lower[basis[i]]-eps:
				pc[i] = -1
				anyInfeasible = true
			case value[i] > upper[basis[i]]+eps:
				pc[i] = 1
				anyInfeasible = true
			}
		}
		if !anyInfeasible {
			break
		}

		enter, dir, best := -1, 0.0, 0.0
		for j := 0; j < total; j++ {
			if isBasic(basis, j) {
				continue
			}
			// d is dPhi/dx_j, where Phi = sum_i pc_i*(value_i) and
			// d(value_i)/dx_j = -tableau[i][j] for a unit increase of x_j.
			d := 0.0
			for i := 0; i < nr; i++ {
				d -= pc[i] * tableau[i][j]
			}
			dirJ := 1.0
			if atUpper[j] {
				dirJ = -1.0
			}
			score := d * dirJ
			if score < best-eps {
				best = score
				enter = j
				dir = dirJ
			}
		}
		if enter == -1 {
			ray := make([]float64, nr)
			copy(ray, pc)
			m.status = Infeasible
			m.farkas = ray
			return Infeasible, nil
		}

		pivotBoundedPhase1(m, tableau, basis, value, nbVal, atUpper, lower, upper, enter, dir, total, nr)
	}

	m.status = Optimal // provisional; phase 2 may still declare Unbounded

	// --- Phase 2: optimize the real objective. ---
	for iter := 0; ; iter++ {
		if iter >= maxIter {
			return Error, phase2IterationLimit()
		}
		reduced := make([]float64, total)
		for j := 0; j < total; j++ {
			reduced[j] = cost[j]
			for i := 0; i < nr; i++ {
				reduced[j] -= cost[basis[i]] * tableau[i][j]
			}
		}

		enter, dir, best := -1, 0.0, 0.0
		for j := 0; j < total; j++ {
			if isBasic(basis, j) {
				continue
			}
			dirJ := 1.0
			if atUpper[j] {
				dirJ = -1.0
			}
			score := reduced[j] * dirJ
			if score < -eps && score < best {
				best = score
				enter = j
				dir = dirJ
			}
		}
		if enter == -1 {
			m.reduced = reduced
			break
		}

		unbounded := pivotBoundedPhase2(tableau, basis, value, nbVal, atUpper, lower, upper, enter, dir, total, nr)
		if unbounded {
			m.status = Unbounded
			return Unbounded, nil
		}
	}

	obj := 0.0
	for j := 0; j < n; j++ {
		obj += m.cost[j] * nbVal[j]
	}
	m.objective = obj
	m.basis = basis
	m.atUpper = atUpper
	m.tableau = tableau
	m.value = value
	m.nonbasicVal = nbVal
	m.status = Optimal
	return Optimal, nil
}

func isBasic(basis []int, j int) bool {
	for _, b := range basis {
		if b == j {
			return true
		}
	}
	return false
}

// pivotBoundedPhase1 advances the entering variable, respecting relaxed
// bounds on rows that are currently infeasible (the standard bound-
// relaxation ratio test: an infeasible basic variable's violated-side
// bound is treated as infinite, since moving further that way cannot make
// the entering step invalid — only its non-violated bound can still block).
func pivotBoundedPhase1(m *MemoryLP, tableau [][]float64, basis []int, value, nbVal []float64, atUpper []bool, lower, upper []float64, enter int, dir float64, total, nr int) {
	genericPivot(tableau, basis, value, nbVal, atUpper, lower, upper, enter, dir, total, nr, true)
}

func pivotBoundedPhase2(tableau [][]float64, basis []int, value, nbVal []float64, atUpper []bool, lower, upper []float64, enter int, dir float64, total, nr int) (unbounded bool) {
	return genericPivot(tableau, basis, value, nbVal, atUpper, lower, upper, enter, dir, total, nr, false)
}

// genericPivot performs one bounded-variable simplex step for variable
// enter moving in direction dir. When relax is true (phase 1), a basic
// row that is currently infeasible has its violated-side bound treated as
// infinite for the ratio test. Returns true if the step is unbounded
// (phase 2 only — phase 1's composite objective is always bounded because
// every basic variable's non-violated bound is finite or its row simply
// never constrains the step).
func genericPivot(tableau [][]float64, basis []int, value, nbVal []float64, atUpper []bool, lower, upper []float64, enter int, dir float64, total, nr int, relax bool) bool {
	limit := math.Inf(1)
	leaveRow := -1
	leaveToUpper := false

	if !math.IsInf(lower[enter], -1) && !math.IsInf(upper[enter], 1) {
		limit = upper[enter] - lower[enter]
	}

	for i := 0; i < nr; i++ {
		coef := tableau[i][enter]
		rate := -coef * dir
		if math.Abs(rate) < eps {
			continue
		}
		bv := basis[i]
		lo, hi := lower[bv], upper[bv]
		if relax {
			switch {
			case value[i] < lo-eps:
				lo = math.Inf(-1)
			case value[i] > hi+eps:
				hi = math.Inf(1)
			}
		}
		var d float64
		var toUpper bool
		if rate > 0 {
			if math.IsInf(hi, 1) {
				continue
			}
			d = (hi - value[i]) / rate
			toUpper = true
		} else {
			if math.IsInf(lo, -1) {
				continue
			}
			d = (value[i] - lo) / -rate
			toUpper = false
		}
		if d < 0 {
			d = 0
		}
		if d < limit-eps {
			limit = d
			leaveRow = i
			leaveToUpper = toUpper
		}
	}

	if math.IsInf(limit, 1) {
		return true // unbounded step
	}

	delta := limit * dir
	for i := 0; i < nr; i++ {
		value[i] -= tableau[i][enter] * delta
		nbVal[basis[i]] = value[i]
	}
	nbVal[enter] += delta

	if leaveRow == -1 {
		// Bound flip: entering variable jumps to its opposite bound, basis unchanged.
		atUpper[enter] = !atUpper[enter]
		return false
	}

	leaving := basis[leaveRow]
	pivotVal := tableau[leaveRow][enter]
	for j := 0; j < total; j++ {
		tableau[leaveRow][j] /= pivotVal
	}
	for i := 0; i < nr; i++ {
		if i == leaveRow {
			continue
		}
		f := tableau[i][enter]
		if f == 0 {
			continue
		}
		for j := 0; j < total; j++ {
			tableau[i][j] -= f * tableau[leaveRow][j]
		}
	}
	basis[leaveRow] = enter
	atUpper[leaving] = leaveToUpper
	value[leaveRow] = nbVal[enter] // row now carries the entering variable's value

	// leaving variable's recorded value must sit exactly on the bound it left to.
	if leaveToUpper {
		nbVal[leaving] = upper[leaving]
	} else {
		nbVal[leaving] = lower[leaving]
	}
	return false
}

func phase1IterationLimit() error {
	return corerr.New(corerr.LPError, "lprelax.Solve: phase 1 iteration limit exceeded")
}

func phase2IterationLimit() error {
	return corerr.New(corerr.LPError, "lprelax.Solve: phase 2 iteration limit exceeded")
}
