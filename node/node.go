// Package node implements the search-tree node and its change list (C5):
// node lifecycle, bound/hole/constraint change records with O(1) undo, and
// the node state machine driven by the search engine.
package node

import (
	"github.com/google/uuid"

	"github.com/opencip/cip/cons"
	"github.com/opencip/cip/internal/obslog"
	"github.com/opencip/cip/model"
)

// State is a node's place in its lifecycle (§4.5).
type State int

const (
	Created State = iota
	InQueue
	Focus
	ProcessedFeasible
	ProcessedInfeasible
	ProcessedToBranch
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case InQueue:
		return "in-queue"
	case Focus:
		return "focus"
	case ProcessedFeasible:
		return "processed-feasible"
	case ProcessedInfeasible:
		return "processed-infeasible"
	case ProcessedToBranch:
		return "processed-to-branch"
	default:
		return "unknown-state"
	}
}

// Node is one node of the branch-and-bound search tree.
type Node struct {
	ID     uuid.UUID
	Parent *Node
	Depth  int

	// LowerBound is this node's local dual bound, used by the priority
	// queue (C6) and by bound(upperBound) pruning.
	LowerBound float64

	State State

	// InsertionIndex breaks ties between nodes with equal selector keys
	// (§5); assigned by the queue on insert.
	InsertionIndex int64

	Changes ConsChanges
	Bounds  []BoundChange
	Holes   []HoleChange
}

var log = obslog.For("node")

// New creates a child of parent (nil for the root) with an empty change
// list, a fresh id, and State Created.
func New(parent *Node, lowerBound float64) *Node {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	n := &Node{
		ID:         uuid.New(),
		Parent:     parent,
		Depth:      depth,
		LowerBound: lowerBound,
		State:      Created,
	}
	log.WithField("node_id", n.ID).WithField("depth", depth).Debug("node created")
	return n
}

// Transition moves the node to a new state, logging at Debug per node (§4.5
// "Added").
func (n *Node) Transition(to State) {
	log.WithField("node_id", n.ID).WithField("from", n.State).WithField("to", to).Debug("node transition")
	n.State = to
}

// ConsChanges is the constraint-set change portion of a node's change list.
type ConsChanges = cons.ConsSetChange

// BoundChange records a single variable bound tightening, preserving the
// old value for O(1) undo (§4.5). A pending change has not yet been applied
// to its variable: Apply fills in OldVal and clears the flag when the node
// carrying it becomes the search focus.
type BoundChange struct {
	Var     *model.Transformed
	Upper   bool // true = upper-bound change, false = lower-bound change
	OldVal  float64
	NewVal  float64
	pending bool

	// Level is the node depth at which this change was made, the CIP
	// analogue of a SAT trail entry's decision level (§4.9).
	Level int

	// Reason is nil for a branching decision; a propagator deducing a
	// change instead fills it in with Deducer and the antecedent changes
	// the deduction depended on, so conflict analysis can walk the
	// deduction graph backward when this node turns out infeasible.
	Reason *Reason
}

// Reason records why a propagator deduced a particular bound change: which
// plugin deduced it, and which earlier bound changes were its antecedents.
type Reason struct {
	Deducer     string
	Antecedents []*BoundChange
}

// HoleChange records a single hole addition.
type HoleChange struct {
	Var  *model.Transformed
	Hole model.Hole
}

// AddLowerBoundChange tightens var's local lower bound and records the
// change for later undo.
func (n *Node) AddLowerBoundChange(v *model.Transformed, newVal float64) error {
	return n.AddLowerBoundChangeWithReason(v, newVal, nil)
}

// AddUpperBoundChange tightens var's local upper bound and records the
// change for later undo.
func (n *Node) AddUpperBoundChange(v *model.Transformed, newVal float64) error {
	return n.AddUpperBoundChangeWithReason(v, newVal, nil)
}

// AddLowerBoundChangeWithReason is AddLowerBoundChange plus a deduction
// reason, for a propagator that wants its change to seed conflict analysis
// if it leads to an infeasibility (§4.9). Pass a nil reason for a branching
// decision or any other change with no deduction to record.
func (n *Node) AddLowerBoundChangeWithReason(v *model.Transformed, newVal float64, reason *Reason) error {
	old, err := v.SetLocalLower(newVal)
	if err != nil {
		return err
	}
	n.Bounds = append(n.Bounds, BoundChange{Var: v, Upper: false, OldVal: old, NewVal: newVal, Level: n.Depth, Reason: reason})
	return nil
}

// AddUpperBoundChangeWithReason is the symmetric counterpart of
// AddLowerBoundChangeWithReason.
func (n *Node) AddUpperBoundChangeWithReason(v *model.Transformed, newVal float64, reason *Reason) error {
	old, err := v.SetLocalUpper(newVal)
	if err != nil {
		return err
	}
	n.Bounds = append(n.Bounds, BoundChange{Var: v, Upper: true, OldVal: old, NewVal: newVal, Level: n.Depth, Reason: reason})
	return nil
}

// AddHole appends a hole to var's domain and records the change.
func (n *Node) AddHole(v *model.Transformed, h model.Hole) {
	v.AddHole(h)
	n.Holes = append(n.Holes, HoleChange{Var: v, Hole: h})
}

// AddPendingLowerBoundChange records a lower-bound tightening to take effect
// only when this node becomes the search focus (via Apply), not at branch
// time — so that a sibling created from the same parent is never disturbed
// by a change destined for this node alone.
func (n *Node) AddPendingLowerBoundChange(v *model.Transformed, newVal float64) {
	n.Bounds = append(n.Bounds, BoundChange{Var: v, Upper: false, NewVal: newVal, pending: true, Level: n.Depth})
}

// AddPendingUpperBoundChange is the symmetric counterpart of
// AddPendingLowerBoundChange.
func (n *Node) AddPendingUpperBoundChange(v *model.Transformed, newVal float64) {
	n.Bounds = append(n.Bounds, BoundChange{Var: v, Upper: true, NewVal: newVal, pending: true, Level: n.Depth})
}

// Trail returns every bound change from the root down to this node, in the
// order they were made (the root's own changes first, this node's last) —
// the CIP analogue of a SAT solver's decision trail, and the input conflict
// analysis (§4.9) walks backward over when this node turns out infeasible.
func (n *Node) Trail() []*BoundChange {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	var trail []*BoundChange
	for i := len(chain) - 1; i >= 0; i-- {
		for j := range chain[i].Bounds {
			trail = append(trail, &chain[i].Bounds[j])
		}
	}
	return trail
}

// Apply materializes every pending bound change recorded on this node onto
// its variables, capturing each one's pre-change value for Undo. Called once
// by the engine when the node is popped as focus (§4.5 "in-queue → focus").
func (n *Node) Apply() error {
	for i := range n.Bounds {
		bc := &n.Bounds[i]
		if !bc.pending {
			continue
		}
		var (
			old float64
			err error
		)
		if bc.Upper {
			old, err = bc.Var.SetLocalUpper(bc.NewVal)
		} else {
			old, err = bc.Var.SetLocalLower(bc.NewVal)
		}
		if err != nil {
			return err
		}
		bc.OldVal = old
		bc.pending = false
	}
	return nil
}

// Undo reverses every bound change, hole addition, and constraint-set
// change recorded on this node, in reverse order, restoring the exact
// pre-focus state (§4.5 "focus → processed-{feasible,infeasible}").
func (n *Node) Undo() error {
	if err := n.Changes.Undo(); err != nil {
		return err
	}
	for i := len(n.Holes) - 1; i >= 0; i-- {
		n.Holes[i].Var.RemoveHole()
	}
	for i := len(n.Bounds) - 1; i >= 0; i-- {
		bc := n.Bounds[i]
		if bc.pending {
			continue
		}
		if bc.Upper {
			if _, err := bc.Var.SetLocalUpper(bc.OldVal); err != nil {
				return err
			}
		} else {
			if _, err := bc.Var.SetLocalLower(bc.OldVal); err != nil {
				return err
			}
		}
	}
	return nil
}
