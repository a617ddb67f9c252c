// Package param implements the global parameter store (C1): typed named
// parameters with domains, defaults, change hooks, and text-file I/O.
package param

import "github.com/opencip/cip/internal/corerr"

// Kind identifies the tagged variant a parameter carries.
type Kind int

const (
	Bool Kind = iota
	Int
	LongInt
	Real
	Char
	String
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case LongInt:
		return "longint"
	case Real:
		return "real"
	case Char:
		return "char"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// BoolHook is called after a bool parameter's value changes, before Set
// returns. Hook errors abort the set but the new value is already stored:
// hooks should only derive caches, never be relied on for rollback.
type BoolHook func(s *Store, p *BoolParam) error
type IntHook func(s *Store, p *IntParam) error
type LongIntHook func(s *Store, p *LongIntParam) error
type RealHook func(s *Store, p *RealParam) error
type CharHook func(s *Store, p *CharParam) error
type StringHook func(s *Store, p *StringParam) error

// Parameter is the capability every variant satisfies, enough to drive
// generic iteration, printing, and file I/O without type-switching in most
// call sites.
type Parameter interface {
	Name() string
	Description() string
	Kind() Kind
	// stringValue renders the current value the way it appears in a
	// parameter file: quoted for String, bare otherwise.
	stringValue() string
	// setFromString parses and applies a file-format value. Used by
	// Store.ReadFile so the parsing logic for each kind lives with the
	// kind's own validation rules.
	setFromString(s *Store, raw string) error
}

// BoolParam is a tagged bool parameter.
type BoolParam struct {
	name, desc       string
	def, cur         bool
	hook             BoolHook
	Payload          interface{}
}

func (p *BoolParam) Name() string        { return p.name }
func (p *BoolParam) Description() string { return p.desc }
func (p *BoolParam) Kind() Kind          { return Bool }
func (p *BoolParam) Default() bool       { return p.def }
func (p *BoolParam) Value() bool         { return p.cur }

// IntParam is a tagged int parameter with an optional [min,max] domain.
type IntParam struct {
	name, desc string
	def, cur   int
	min, max   *int
	hook       IntHook
	Payload    interface{}
}

func (p *IntParam) Name() string        { return p.name }
func (p *IntParam) Description() string { return p.desc }
func (p *IntParam) Kind() Kind          { return Int }
func (p *IntParam) Default() int        { return p.def }
func (p *IntParam) Value() int          { return p.cur }

// LongIntParam is a tagged int64 parameter with an optional [min,max] domain.
type LongIntParam struct {
	name, desc string
	def, cur   int64
	min, max   *int64
	hook       LongIntHook
	Payload    interface{}
}

func (p *LongIntParam) Name() string        { return p.name }
func (p *LongIntParam) Description() string { return p.desc }
func (p *LongIntParam) Kind() Kind          { return LongInt }
func (p *LongIntParam) Default() int64      { return p.def }
func (p *LongIntParam) Value() int64        { return p.cur }

// RealParam is a tagged float64 parameter with an optional [min,max] domain.
type RealParam struct {
	name, desc string
	def, cur   float64
	min, max   *float64
	hook       RealHook
	Payload    interface{}
}

func (p *RealParam) Name() string        { return p.name }
func (p *RealParam) Description() string { return p.desc }
func (p *RealParam) Kind() Kind          { return Real }
func (p *RealParam) Default() float64    { return p.def }
func (p *RealParam) Value() float64      { return p.cur }

// CharParam is a tagged rune parameter with an optional allowed-glyph set.
type CharParam struct {
	name, desc string
	def, cur   rune
	allowed    []rune
	hook       CharHook
	Payload    interface{}
}

func (p *CharParam) Name() string        { return p.name }
func (p *CharParam) Description() string { return p.desc }
func (p *CharParam) Kind() Kind          { return Char }
func (p *CharParam) Default() rune       { return p.def }
func (p *CharParam) Value() rune         { return p.cur }

// StringParam is a tagged string parameter with an optional allowed-values
// set; an empty allowed set means any string is accepted.
type StringParam struct {
	name, desc string
	def, cur   string
	allowed    []string
	hook       StringHook
	Payload    interface{}
}

func (p *StringParam) Name() string        { return p.name }
func (p *StringParam) Description() string { return p.desc }
func (p *StringParam) Kind() Kind          { return String }
func (p *StringParam) Default() string     { return p.def }
func (p *StringParam) Value() string       { return p.cur }

func wrongType(op, name string) error {
	return corerr.New(corerr.ParameterWrongType, op+": "+name)
}

func unknown(op, name string) error {
	return corerr.New(corerr.ParameterUnknown, op+": "+name)
}

func wrongValue(op, name string) error {
	return corerr.New(corerr.ParameterWrongValue, op+": "+name)
}
