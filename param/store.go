package param

import (
	"sort"
	"sync"

	"github.com/opencip/cip/internal/corerr"
	"github.com/opencip/cip/internal/obslog"
)

var log = obslog.For("param")

// Store holds every registered parameter, indexed by name for O(1) lookup.
// Per §5, it is read-any-time but write-only-outside-solve; InSolve reports
// whether the engine currently forbids writes (except through a hook that
// explicitly allows it, signalled by AllowDuringSolve).
type Store struct {
	mu               sync.RWMutex
	byName           map[string]Parameter
	inSolve          bool
	allowDuringSolve map[string]bool
}

// NewStore returns an empty parameter store.
func NewStore() *Store {
	return &Store{byName: make(map[string]Parameter)}
}

// SetInSolve flips the write-only-outside-solve gate. The search engine
// calls this on entering/leaving the solving state.
func (s *Store) SetInSolve(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inSolve = v
}

// InSolve reports whether the store currently rejects writes outside of an
// explicitly allowed hook.
func (s *Store) InSolve() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inSolve
}

// AllowDuringSolve exempts name from the write-only-outside-solve gate,
// for a change hook that explicitly needs to mutate a parameter mid-solve.
func (s *Store) AllowDuringSolve(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowDuringSolve == nil {
		s.allowDuringSolve = make(map[string]bool)
	}
	s.allowDuringSolve[name] = true
}

func (s *Store) checkWritable(name string) error {
	if !s.inSolve {
		return nil
	}
	if s.allowDuringSolve != nil && s.allowDuringSolve[name] {
		return nil
	}
	return corerr.New(corerr.ParameterWrongValue, "param.Set: "+name+" is read-only during solve")
}

// Names returns every registered parameter name, sorted, for deterministic
// file output and listing.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Store) add(p Parameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[p.Name()]; ok {
		return corerr.New(corerr.ParameterWrongValue, "param.add: duplicate name "+p.Name())
	}
	s.byName[p.Name()] = p
	return nil
}

// AddBool registers a new bool parameter.
func (s *Store) AddBool(name, desc string, def bool, hook BoolHook) error {
	return s.add(&BoolParam{name: name, desc: desc, def: def, cur: def, hook: hook})
}

// AddInt registers a new int parameter. min/max may be nil for an
// unconstrained side.
func (s *Store) AddInt(name, desc string, def int, min, max *int, hook IntHook) error {
	if min != nil && max != nil && *min > *max {
		return corerr.New(corerr.ParameterWrongValue, "param.AddInt: "+name+": min > max")
	}
	return s.add(&IntParam{name: name, desc: desc, def: def, cur: def, min: min, max: max, hook: hook})
}

// AddLongInt registers a new int64 parameter.
func (s *Store) AddLongInt(name, desc string, def int64, min, max *int64, hook LongIntHook) error {
	if min != nil && max != nil && *min > *max {
		return corerr.New(corerr.ParameterWrongValue, "param.AddLongInt: "+name+": min > max")
	}
	return s.add(&LongIntParam{name: name, desc: desc, def: def, cur: def, min: min, max: max, hook: hook})
}

// AddReal registers a new float64 parameter.
func (s *Store) AddReal(name, desc string, def float64, min, max *float64, hook RealHook) error {
	if min != nil && max != nil && *min > *max {
		return corerr.New(corerr.ParameterWrongValue, "param.AddReal: "+name+": min > max")
	}
	return s.add(&RealParam{name: name, desc: desc, def: def, cur: def, min: min, max: max, hook: hook})
}

// AddChar registers a new rune parameter. allowed, if non-empty, is the set
// of glyphs Set will accept; with an empty allowed set Set accepts any rune.
// Printability is checked only when a value is parsed from text.
func (s *Store) AddChar(name, desc string, def rune, allowed []rune, hook CharHook) error {
	return s.add(&CharParam{name: name, desc: desc, def: def, cur: def, allowed: allowed, hook: hook})
}

// AddString registers a new string parameter. allowed, if non-empty, is the
// set of values Set will accept.
func (s *Store) AddString(name, desc string, def string, allowed []string, hook StringHook) error {
	return s.add(&StringParam{name: name, desc: desc, def: def, cur: def, allowed: allowed, hook: hook})
}

// Get returns the registered parameter by name, for generic inspection
// (listing, display) without a type switch over every Kind.
func (s *Store) Get(name string) (Parameter, error) {
	return s.lookup("param.Get", name)
}

// StringValue renders name's current value in the same text the parameter
// file grammar uses, the read side of SetFromString.
func (s *Store) StringValue(name string) (string, error) {
	p, err := s.lookup("param.StringValue", name)
	if err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return p.stringValue(), nil
}

// SetFromString parses raw with name's own parameter-file grammar and
// applies it, the same path ReadFile takes per line.
func (s *Store) SetFromString(name, raw string) error {
	p, err := s.lookup("param.SetFromString", name)
	if err != nil {
		return err
	}
	return p.setFromString(s, raw)
}

func (s *Store) lookup(op, name string) (Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byName[name]
	if !ok {
		return nil, unknown(op, name)
	}
	return p, nil
}

// GetBool returns the current value of a bool parameter.
func (s *Store) GetBool(name string) (bool, error) {
	p, err := s.lookup("param.GetBool", name)
	if err != nil {
		return false, err
	}
	bp, ok := p.(*BoolParam)
	if !ok {
		return false, wrongType("param.GetBool", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bp.cur, nil
}

// SetBool validates and applies a new value, then runs the change hook.
func (s *Store) SetBool(name string, v bool) error {
	if err := s.checkWritable(name); err != nil {
		return err
	}
	p, err := s.lookup("param.SetBool", name)
	if err != nil {
		return err
	}
	bp, ok := p.(*BoolParam)
	if !ok {
		return wrongType("param.SetBool", name)
	}
	s.mu.Lock()
	bp.cur = v
	hook := bp.hook
	s.mu.Unlock()
	if hook != nil {
		if err := hook(s, bp); err != nil {
			return corerr.Wrap(corerr.ParameterWrongValue, "param.SetBool: "+name+": hook failed", err)
		}
	}
	log.WithField("name", name).Debugf("set bool = %v", v)
	return nil
}

// GetInt returns the current value of an int parameter.
func (s *Store) GetInt(name string) (int, error) {
	p, err := s.lookup("param.GetInt", name)
	if err != nil {
		return 0, err
	}
	ip, ok := p.(*IntParam)
	if !ok {
		return 0, wrongType("param.GetInt", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ip.cur, nil
}

// SetInt validates against [min,max] if present, applies, then runs the hook.
func (s *Store) SetInt(name string, v int) error {
	if err := s.checkWritable(name); err != nil {
		return err
	}
	p, err := s.lookup("param.SetInt", name)
	if err != nil {
		return err
	}
	ip, ok := p.(*IntParam)
	if !ok {
		return wrongType("param.SetInt", name)
	}
	if (ip.min != nil && v < *ip.min) || (ip.max != nil && v > *ip.max) {
		return wrongValue("param.SetInt", name)
	}
	s.mu.Lock()
	ip.cur = v
	hook := ip.hook
	s.mu.Unlock()
	if hook != nil {
		if err := hook(s, ip); err != nil {
			return corerr.Wrap(corerr.ParameterWrongValue, "param.SetInt: "+name+": hook failed", err)
		}
	}
	log.WithField("name", name).Debugf("set int = %d", v)
	return nil
}

// GetLongInt returns the current value of a longint parameter.
func (s *Store) GetLongInt(name string) (int64, error) {
	p, err := s.lookup("param.GetLongInt", name)
	if err != nil {
		return 0, err
	}
	lp, ok := p.(*LongIntParam)
	if !ok {
		return 0, wrongType("param.GetLongInt", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lp.cur, nil
}

// SetLongInt validates against [min,max] if present, applies, then runs the hook.
func (s *Store) SetLongInt(name string, v int64) error {
	if err := s.checkWritable(name); err != nil {
		return err
	}
	p, err := s.lookup("param.SetLongInt", name)
	if err != nil {
		return err
	}
	lp, ok := p.(*LongIntParam)
	if !ok {
		return wrongType("param.SetLongInt", name)
	}
	if (lp.min != nil && v < *lp.min) || (lp.max != nil && v > *lp.max) {
		return wrongValue("param.SetLongInt", name)
	}
	s.mu.Lock()
	lp.cur = v
	hook := lp.hook
	s.mu.Unlock()
	if hook != nil {
		if err := hook(s, lp); err != nil {
			return corerr.Wrap(corerr.ParameterWrongValue, "param.SetLongInt: "+name+": hook failed", err)
		}
	}
	return nil
}

// GetReal returns the current value of a real parameter.
func (s *Store) GetReal(name string) (float64, error) {
	p, err := s.lookup("param.GetReal", name)
	if err != nil {
		return 0, err
	}
	rp, ok := p.(*RealParam)
	if !ok {
		return 0, wrongType("param.GetReal", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rp.cur, nil
}

// SetReal validates against [min,max] if present, applies, then runs the hook.
func (s *Store) SetReal(name string, v float64) error {
	if err := s.checkWritable(name); err != nil {
		return err
	}
	p, err := s.lookup("param.SetReal", name)
	if err != nil {
		return err
	}
	rp, ok := p.(*RealParam)
	if !ok {
		return wrongType("param.SetReal", name)
	}
	if (rp.min != nil && v < *rp.min) || (rp.max != nil && v > *rp.max) {
		return wrongValue("param.SetReal", name)
	}
	s.mu.Lock()
	rp.cur = v
	hook := rp.hook
	s.mu.Unlock()
	if hook != nil {
		if err := hook(s, rp); err != nil {
			return corerr.Wrap(corerr.ParameterWrongValue, "param.SetReal: "+name+": hook failed", err)
		}
	}
	return nil
}

// GetChar returns the current value of a char parameter.
func (s *Store) GetChar(name string) (rune, error) {
	p, err := s.lookup("param.GetChar", name)
	if err != nil {
		return 0, err
	}
	cp, ok := p.(*CharParam)
	if !ok {
		return 0, wrongType("param.GetChar", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cp.cur, nil
}

// SetChar validates against the allowed set if present, applies, then runs the hook.
func (s *Store) SetChar(name string, v rune) error {
	if err := s.checkWritable(name); err != nil {
		return err
	}
	p, err := s.lookup("param.SetChar", name)
	if err != nil {
		return err
	}
	cp, ok := p.(*CharParam)
	if !ok {
		return wrongType("param.SetChar", name)
	}
	if len(cp.allowed) > 0 && !runeAllowed(v, cp.allowed) {
		return wrongValue("param.SetChar", name)
	}
	s.mu.Lock()
	cp.cur = v
	hook := cp.hook
	s.mu.Unlock()
	if hook != nil {
		if err := hook(s, cp); err != nil {
			return corerr.Wrap(corerr.ParameterWrongValue, "param.SetChar: "+name+": hook failed", err)
		}
	}
	return nil
}

func runeAllowed(v rune, allowed []rune) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// GetString returns the current value of a string parameter.
func (s *Store) GetString(name string) (string, error) {
	p, err := s.lookup("param.GetString", name)
	if err != nil {
		return "", err
	}
	sp, ok := p.(*StringParam)
	if !ok {
		return "", wrongType("param.GetString", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sp.cur, nil
}

// SetString validates against the allowed set if present, applies, then runs the hook.
func (s *Store) SetString(name string, v string) error {
	if err := s.checkWritable(name); err != nil {
		return err
	}
	p, err := s.lookup("param.SetString", name)
	if err != nil {
		return err
	}
	sp, ok := p.(*StringParam)
	if !ok {
		return wrongType("param.SetString", name)
	}
	if len(sp.allowed) > 0 && !stringAllowed(v, sp.allowed) {
		return wrongValue("param.SetString", name)
	}
	s.mu.Lock()
	sp.cur = v
	hook := sp.hook
	s.mu.Unlock()
	if hook != nil {
		if err := hook(s, sp); err != nil {
			return corerr.Wrap(corerr.ParameterWrongValue, "param.SetString: "+name+": hook failed", err)
		}
	}
	return nil
}

func stringAllowed(v string, allowed []string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
