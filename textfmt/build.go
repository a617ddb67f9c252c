package textfmt

import (
	"fmt"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/engine"
	"github.com/opencip/cip/internal/corerr"
	"github.com/opencip/cip/linrows"
	"github.com/opencip/cip/lprelax"
	"github.com/opencip/cip/model"
)

// Built holds everything a parsed Problem contributes to an engine.Config:
// the LP relaxation, the column bookkeeping, and the admission-check
// registry, leaving plugin registries and parameters to the caller.
type Built struct {
	LP             lprelax.LP
	Handlers       *cons.Registry
	Columns        []*model.Transformed
	IntegerColumns []engine.IntegerColumn
	ObjCoefs       []float64
	Objective      engine.Objective
	Maximize       bool
}

// Build translates a parsed Problem into the pieces engine.Config needs.
func Build(p *Problem) (*Built, error) {
	n := len(p.Vars)
	objCoefs := make([]float64, n)
	for _, t := range p.Obj {
		idx := p.VarIndex(t.Var)
		if idx < 0 {
			return nil, corerr.New(corerr.InvalidData, "textfmt.Build: obj references unknown variable "+t.Var)
		}
		objCoefs[idx] = t.Coef
	}

	columns := make([]*model.Transformed, n)
	var integerColumns []engine.IntegerColumn
	for i, v := range p.Vars {
		orig := model.NewOriginal(i, v.Name, v.Kind, objCoefs[i])
		tr, err := orig.Transform(i, v.Lower, v.Upper)
		if err != nil {
			return nil, err
		}
		columns[i] = tr
		if v.Kind.IsIntegral() {
			integerColumns = append(integerColumns, engine.IntegerColumn{Var: tr, Column: i})
		}
	}

	lp := lprelax.NewMemoryLP(n)
	if err := lp.SetObjective(objCoefs, p.Maximize); err != nil {
		return nil, err
	}
	for i, v := range p.Vars {
		if err := lp.SetColBounds(i, v.Lower, v.Upper); err != nil {
			return nil, err
		}
	}

	rows := make([]linrows.Row, 0, len(p.Rows))
	for _, r := range p.Rows {
		coeffs := make([]float64, n)
		for _, t := range r.Terms {
			idx := p.VarIndex(t.Var)
			if idx < 0 {
				return nil, corerr.New(corerr.InvalidData, "textfmt.Build: row "+r.Name+" references unknown variable "+t.Var)
			}
			coeffs[idx] += t.Coef
		}
		lower, upper := model.NegInf, model.PosInf
		switch r.Op {
		case "<=":
			upper = r.RHS
			lp.AddLeRow(coeffs, r.RHS)
		case ">=":
			lower = r.RHS
			lp.AddGeRow(coeffs, r.RHS)
		case "=":
			lower, upper = r.RHS, r.RHS
			lp.AddEqRow(coeffs, r.RHS)
		default:
			return nil, corerr.New(corerr.InvalidData, fmt.Sprintf("textfmt.Build: row %s: unknown operator %q", r.Name, r.Op))
		}
		rows = append(rows, linrows.Row{Name: r.Name, Coeffs: coeffs, Lower: lower, Upper: upper})
	}

	handlers := cons.NewRegistry()
	if err := linrows.Register(handlers, rows); err != nil {
		return nil, err
	}

	objective := func(values []float64) float64 {
		obj := 0.0
		for i, c := range objCoefs {
			if i < len(values) {
				obj += c * values[i]
			}
		}
		return obj
	}

	return &Built{
		LP:             lp,
		Handlers:       handlers,
		Columns:        columns,
		IntegerColumns: integerColumns,
		ObjCoefs:       objCoefs,
		Objective:      objective,
		Maximize:       p.Maximize,
	}, nil
}
