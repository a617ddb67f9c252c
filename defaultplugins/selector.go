// Package defaultplugins implements the core's built-in node selector
// (C7) and branching rule (C8): depth-first node selection and
// most-fractional integrality branching, the two plugins every engine can
// fall back on with no configuration.
package defaultplugins

import "github.com/opencip/cip/node"

// DepthFirstSelector implements plugin.NodeSelector: always resumes the
// deepest of the just-created children, tied by lower bound, so it never
// needs anything beyond the fields already on node.Node.
type DepthFirstSelector struct {
	priority int
}

// NewDepthFirstSelector creates the default selector at the given priority.
func NewDepthFirstSelector(priority int) *DepthFirstSelector {
	return &DepthFirstSelector{priority: priority}
}

// Name identifies this selector.
func (s *DepthFirstSelector) Name() string { return "dfs" }

// Priority returns this selector's dispatch priority.
func (s *DepthFirstSelector) Priority() int { return s.priority }

// LowestBoundFirst is false: depth is the primary key, not the lower bound,
// so the queue's min-lower-bound fast path does not apply to this selector.
func (s *DepthFirstSelector) LowestBoundFirst() bool { return false }

// Select picks the deepest child just produced by branching, falling back
// to the queue's current front when there are no children (e.g. the node
// that was just closed had no branch).
func (s *DepthFirstSelector) Select(children, siblings []*node.Node, queueFront *node.Node) *node.Node {
	if len(children) > 0 {
		return s.best(children)
	}
	return queueFront
}

func (s *DepthFirstSelector) best(nodes []*node.Node) *node.Node {
	best := nodes[0]
	for _, n := range nodes[1:] {
		if s.Compare(n, best) < 0 {
			best = n
		}
	}
	return best
}

// Compare orders by depth (deeper first), then by local lower bound, then
// by insertion index for full determinism (§5).
func (s *DepthFirstSelector) Compare(a, b *node.Node) int {
	if a.Depth != b.Depth {
		if a.Depth > b.Depth {
			return -1
		}
		return 1
	}
	if a.LowerBound != b.LowerBound {
		if a.LowerBound < b.LowerBound {
			return -1
		}
		return 1
	}
	if a.InsertionIndex != b.InsertionIndex {
		if a.InsertionIndex < b.InsertionIndex {
			return -1
		}
		return 1
	}
	return 0
}

// Less adapts Compare to nodequeue.Less's boolean form.
func (s *DepthFirstSelector) Less(a, b *node.Node) bool { return s.Compare(a, b) < 0 }
