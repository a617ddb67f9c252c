package param

import (
	"strconv"
	"strings"

	"github.com/opencip/cip/internal/corerr"
)

func (p *BoolParam) stringValue() string {
	if p.cur {
		return "TRUE"
	}
	return "FALSE"
}

func (p *BoolParam) setFromString(s *Store, raw string) error {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TRUE":
		return s.SetBool(p.name, true)
	case "FALSE":
		return s.SetBool(p.name, false)
	default:
		return corerr.New(corerr.ParseError, "param.read: "+p.name+": expected TRUE or FALSE")
	}
}

func (p *IntParam) stringValue() string { return strconv.Itoa(p.cur) }

func (p *IntParam) setFromString(s *Store, raw string) error {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return corerr.Wrap(corerr.ParseError, "param.read: "+p.name, err)
	}
	return s.SetInt(p.name, v)
}

func (p *LongIntParam) stringValue() string { return strconv.FormatInt(p.cur, 10) }

func (p *LongIntParam) setFromString(s *Store, raw string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return corerr.Wrap(corerr.ParseError, "param.read: "+p.name, err)
	}
	return s.SetLongInt(p.name, v)
}

func (p *RealParam) stringValue() string { return strconv.FormatFloat(p.cur, 'g', -1, 64) }

func (p *RealParam) setFromString(s *Store, raw string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return corerr.Wrap(corerr.ParseError, "param.read: "+p.name, err)
	}
	return s.SetReal(p.name, v)
}

func (p *CharParam) stringValue() string { return string(p.cur) }

func (p *CharParam) setFromString(s *Store, raw string) error {
	raw = strings.TrimSpace(raw)
	runes := []rune(raw)
	if len(runes) != 1 {
		return corerr.New(corerr.ParseError, "param.read: "+p.name+": expected a single glyph")
	}
	if !strconv.IsPrint(runes[0]) {
		return corerr.New(corerr.ParseError, "param.read: "+p.name+": expected a printable glyph")
	}
	return s.SetChar(p.name, runes[0])
}

func (p *StringParam) stringValue() string {
	return `"` + p.cur + `"`
}

func (p *StringParam) setFromString(s *Store, raw string) error {
	v, err := unquote(raw)
	if err != nil {
		return corerr.Wrap(corerr.ParseError, "param.read: "+p.name, err)
	}
	return s.SetString(p.name, v)
}

// unquote parses the file format's double-quoted string, where escapes are
// literal (a backslash is kept as-is, it does not introduce an escape
// sequence), per §6.
func unquote(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", corerr.New(corerr.ParseError, "expected a double-quoted string")
	}
	return raw[1 : len(raw)-1], nil
}
