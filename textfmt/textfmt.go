// Package textfmt implements cmd/cip's own minimal problem text format and
// the plugin.Reader that loads it. Concrete LP/MPS/CIP/MOP parsers are out
// of the core's scope (SPEC §1); this is the CLI wrapper's own demonstration
// format, grounded on the teacher's hand-rolled, line-oriented parsing
// style (solver/parser_pb.go's DIMACS/OPB readers) rather than on any of
// those external formats.
//
// Grammar, one statement per non-blank, non-comment line:
//
//	sense minimize|maximize
//	var <name> bin
//	var <name> int|cont <lower> <upper>
//	obj <name> <coef> [<name> <coef> ...]
//	row <name> <=|>=|= <rhs> <name> <coef> [<name> <coef> ...]
//
// Lines starting with "#" are comments. var declares one column, in
// declaration order; obj and row reference variables by name.
package textfmt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/opencip/cip/internal/corerr"
	"github.com/opencip/cip/model"
)

// VarDecl is one parsed variable declaration.
type VarDecl struct {
	Name         string
	Kind         model.Kind
	Lower, Upper float64
}

// Term is one coefficient·variable product in an objective or row.
type Term struct {
	Var  string
	Coef float64
}

// RowDecl is one parsed linear row.
type RowDecl struct {
	Name  string
	Op    string // "<=", ">=", "="
	RHS   float64
	Terms []Term
}

// Problem is the fully parsed text-format model, in declaration order.
type Problem struct {
	Maximize bool
	Vars     []VarDecl
	Obj      []Term
	Rows     []RowDecl
}

// VarIndex returns the declaration-order column index of name, or -1.
func (p *Problem) VarIndex(name string) int {
	for i, v := range p.Vars {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// Parse reads r line by line against the grammar above.
func Parse(r io.Reader) (*Problem, error) {
	p := &Problem{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if err := parseLine(p, fields); err != nil {
			return nil, corerr.Wrap(corerr.ParseError, fmt.Sprintf("textfmt.Parse: line %d", lineNo), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, corerr.Wrap(corerr.ReadError, "textfmt.Parse", err)
	}
	return p, nil
}

func parseLine(p *Problem, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "sense":
		if len(fields) != 2 {
			return fmt.Errorf("sense: expected one argument")
		}
		switch fields[1] {
		case "minimize":
			p.Maximize = false
		case "maximize":
			p.Maximize = true
		default:
			return fmt.Errorf("sense: expected minimize or maximize, got %q", fields[1])
		}
	case "var":
		decl, err := parseVar(fields[1:])
		if err != nil {
			return err
		}
		p.Vars = append(p.Vars, decl)
	case "obj":
		terms, err := parseTerms(fields[1:])
		if err != nil {
			return err
		}
		p.Obj = append(p.Obj, terms...)
	case "row":
		row, err := parseRow(fields[1:])
		if err != nil {
			return err
		}
		p.Rows = append(p.Rows, row)
	default:
		return fmt.Errorf("unrecognized statement %q", fields[0])
	}
	return nil
}

func parseVar(fields []string) (VarDecl, error) {
	if len(fields) < 2 {
		return VarDecl{}, fmt.Errorf("var: expected name and kind")
	}
	name := fields[0]
	var kind model.Kind
	switch fields[1] {
	case "bin":
		kind = model.Binary
	case "int":
		kind = model.Integer
	case "cont":
		kind = model.Continuous
	default:
		return VarDecl{}, fmt.Errorf("var %s: unknown kind %q", name, fields[1])
	}
	lower, upper := 0.0, 1.0
	if kind != model.Binary {
		if len(fields) != 4 {
			return VarDecl{}, fmt.Errorf("var %s: expected lower and upper bound", name)
		}
		var err error
		if lower, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return VarDecl{}, fmt.Errorf("var %s: bad lower bound: %w", name, err)
		}
		if upper, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return VarDecl{}, fmt.Errorf("var %s: bad upper bound: %w", name, err)
		}
	}
	return VarDecl{Name: name, Kind: kind, Lower: lower, Upper: upper}, nil
}

func parseTerms(fields []string) ([]Term, error) {
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("expected name/coefficient pairs")
	}
	terms := make([]Term, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		coef, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad coefficient for %s: %w", fields[i], err)
		}
		terms = append(terms, Term{Var: fields[i], Coef: coef})
	}
	return terms, nil
}

func parseRow(fields []string) (RowDecl, error) {
	if len(fields) < 4 {
		return RowDecl{}, fmt.Errorf("row: expected name, operator, rhs, and at least one term")
	}
	name, op := fields[0], fields[1]
	switch op {
	case "<=", ">=", "=":
	default:
		return RowDecl{}, fmt.Errorf("row %s: unknown operator %q", name, op)
	}
	rhs, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return RowDecl{}, fmt.Errorf("row %s: bad rhs: %w", name, err)
	}
	terms, err := parseTerms(fields[3:])
	if err != nil {
		return RowDecl{}, fmt.Errorf("row %s: %w", name, err)
	}
	return RowDecl{Name: name, Op: op, RHS: rhs, Terms: terms}, nil
}

// Reader implements plugin.Reader for the ".cipmod" extension, retaining
// the last successfully parsed Problem for the caller to retrieve.
type Reader struct {
	Problem *Problem
}

// NewReader returns an empty Reader, ready for Read.
func NewReader() *Reader { return &Reader{} }

func (r *Reader) Name() string         { return "textfmt" }
func (r *Reader) Extensions() []string { return []string{".cipmod"} }

// Read parses path and, on success, stores the result on r.Problem.
func (r *Reader) Read(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return corerr.Wrap(corerr.NoFile, "textfmt.Read: "+path, err)
		}
		return corerr.Wrap(corerr.ReadError, "textfmt.Read: "+path, err)
	}
	defer func() { _ = f.Close() }()
	p, err := Parse(f)
	if err != nil {
		return err
	}
	r.Problem = p
	return nil
}
