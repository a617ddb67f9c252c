package model

import "github.com/opencip/cip/internal/corerr"

// SetGlobalLower changes the root bound. Permitted only outside search
// (the caller — typically presolve or problem construction — is
// responsible for enforcing that); rejected outright on a non-Active
// variable. Returns the previous value for the caller's own undo
// bookkeeping, though global changes are not undone via the node
// change-list mechanism (§4.2: "permitted only outside search").
func (t *Transformed) SetGlobalLower(v float64) (old float64, err error) {
	if t.SetLocalBoundRejected() {
		return 0, corerr.New(corerr.InvalidData, "model.SetGlobalLower: variable is not active")
	}
	old = t.Domain.GlobalLower
	t.Domain.GlobalLower = v
	if v > t.Domain.LocalLower {
		t.Domain.LocalLower = v
	}
	return old, nil
}

// SetGlobalUpper is the symmetric counterpart of SetGlobalLower.
func (t *Transformed) SetGlobalUpper(v float64) (old float64, err error) {
	if t.SetLocalBoundRejected() {
		return 0, corerr.New(corerr.InvalidData, "model.SetGlobalUpper: variable is not active")
	}
	old = t.Domain.GlobalUpper
	t.Domain.GlobalUpper = v
	if v < t.Domain.LocalUpper {
		t.Domain.LocalUpper = v
	}
	return old, nil
}

// SetLocalLower records a tightening (or widening, on undo) of the local
// lower bound. The node-set-change mechanism (C5) calls this both to apply
// a change and, with the returned old value, to undo it; it never rejects
// a widening because undo must always succeed.
func (t *Transformed) SetLocalLower(v float64) (old float64, err error) {
	if t.SetLocalBoundRejected() {
		return 0, corerr.New(corerr.InvalidData, "model.SetLocalLower: variable is not active")
	}
	old = t.Domain.LocalLower
	t.Domain.LocalLower = v
	return old, nil
}

// SetLocalUpper is the symmetric counterpart of SetLocalLower.
func (t *Transformed) SetLocalUpper(v float64) (old float64, err error) {
	if t.SetLocalBoundRejected() {
		return 0, corerr.New(corerr.InvalidData, "model.SetLocalUpper: variable is not active")
	}
	old = t.Domain.LocalUpper
	t.Domain.LocalUpper = v
	return old, nil
}

// AddHole inserts h into the domain's hole list. The caller (C5's
// node-set-change) is responsible for removing it again via RemoveHole on
// undo; AddHole itself does no overlap validation on the hot path — that
// is Domain.Validate's job, which only the tests call.
func (t *Transformed) AddHole(h Hole) {
	t.Domain.Holes = append(t.Domain.Holes, h)
}

// RemoveHole removes the last-added hole, restoring the pre-AddHole state.
// Holes are only ever added/removed in LIFO order by the node change-list
// undo mechanism, so this is O(1).
func (t *Transformed) RemoveHole() {
	n := len(t.Domain.Holes)
	if n == 0 {
		return
	}
	t.Domain.Holes = t.Domain.Holes[:n-1]
}
