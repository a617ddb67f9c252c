/******************************************************************************************
This heap (percolateUp/percolateDown/build/removeMin, with a reverse index
array for O(1) containment and decrease/increase-key) is a port of Niklas
Een and Niklas Sorensson's Minisat Heap.h, by way of this module's teacher
package, generalized from "variable activity, most-active first" to "search
node, comparator-defined order".
******************************************************************************************/

// Package nodequeue implements the search tree's node priority queue (C6):
// a binary heap over leaf nodes ordered by a pluggable comparator, with
// O(log n) insert/pop/remove, bound-based pruning, and a lazily
// recomputed minimum-lower-bound cache.
package nodequeue

import "github.com/opencip/cip/node"

// Less reports whether a sorts before b under the active node selector's
// ordering (§4.7's compare callback, adapted to a boolean for heap use).
type Less func(a, b *node.Node) bool

// Queue is a binary-heap priority queue over *node.Node.
type Queue struct {
	less    Less
	content []*node.Node
	indices map[*node.Node]int // reverse index: node -> position in content

	lowestBoundFirst bool
	minBoundValid    bool
	minBound         float64

	nextInsertionIndex int64
}

// New creates an empty queue ordered by less. lowestBoundFirst should be
// true when the selector's primary key is the local lower bound, enabling
// the queue's min-lower-bound fast path (§4.6).
func New(less Less, lowestBoundFirst bool) *Queue {
	return &Queue{
		less:             less,
		indices:          make(map[*node.Node]int),
		lowestBoundFirst: lowestBoundFirst,
	}
}

// Len returns the number of nodes currently queued.
func (q *Queue) Len() int { return len(q.content) }

// Empty reports whether the queue has no nodes.
func (q *Queue) Empty() bool { return len(q.content) == 0 }

// Insert adds n to the queue and assigns it an insertion index used to
// break comparator ties (§5).
func (q *Queue) Insert(n *node.Node) {
	n.InsertionIndex = q.nextInsertionIndex
	q.nextInsertionIndex++
	n.Transition(node.InQueue)

	idx := len(q.content)
	q.content = append(q.content, n)
	q.indices[n] = idx
	q.percolateUp(idx)
	q.invalidateMinBoundOnInsert(n)
}

func (q *Queue) invalidateMinBoundOnInsert(n *node.Node) {
	if !q.minBoundValid {
		return
	}
	if n.LowerBound < q.minBound {
		q.minBound = n.LowerBound
	}
}

// PopBest removes and returns the best node per the current comparator, or
// nil if the queue is empty.
func (q *Queue) PopBest() *node.Node {
	if len(q.content) == 0 {
		return nil
	}
	best := q.content[0]
	q.removeAt(0)
	q.minBoundValid = false
	return best
}

// Remove locates n through the reverse index and removes it (rare
// operation, §4.6).
func (q *Queue) Remove(n *node.Node) bool {
	idx, ok := q.indices[n]
	if !ok {
		return false
	}
	q.removeAt(idx)
	q.minBoundValid = false
	return true
}

func (q *Queue) removeAt(i int) {
	last := len(q.content) - 1
	x := q.content[i]
	q.content[i] = q.content[last]
	q.indices[q.content[i]] = i
	q.content = q.content[:last]
	delete(q.indices, x)
	if i < len(q.content) {
		q.percolateDown(i)
		q.percolateUp(i)
	}
}

// Bound removes every leaf whose local lower bound is >= upperBound,
// walking the entire slot array so no prunable descendant is skipped
// regardless of the active ordering (§4.6).
func (q *Queue) Bound(upperBound float64) []*node.Node {
	var pruned []*node.Node
	for i := 0; i < len(q.content); {
		if q.content[i].LowerBound >= upperBound {
			pruned = append(pruned, q.content[i])
			q.removeAt(i)
			continue
		}
		i++
	}
	q.minBoundValid = false
	return pruned
}

// Resort rebuilds the heap after a selector change, O(n log n).
func (q *Queue) Resort(less Less) {
	q.less = less
	for i := len(q.content)/2 - 1; i >= 0; i-- {
		q.percolateDown(i)
	}
	q.minBoundValid = false
}

// MinLowerBound returns the minimum local lower bound among queued nodes.
// When the active selector orders by lowest-bound-first, this is simply
// the root; otherwise it is cached and recomputed by one linear pass when
// invalidated.
func (q *Queue) MinLowerBound() (float64, bool) {
	if len(q.content) == 0 {
		return 0, false
	}
	if q.lowestBoundFirst {
		return q.content[0].LowerBound, true
	}
	if !q.minBoundValid {
		min := q.content[0].LowerBound
		for _, n := range q.content[1:] {
			if n.LowerBound < min {
				min = n.LowerBound
			}
		}
		q.minBound = min
		q.minBoundValid = true
	}
	return q.minBound, true
}

func left(i int) int   { return i*2 + 1 }
func right(i int) int  { return (i + 1) * 2 }
func parent(i int) int { return (i - 1) >> 1 }

func (q *Queue) percolateUp(i int) {
	x := q.content[i]
	p := parent(i)
	for i != 0 && q.less(x, q.content[p]) {
		q.content[i] = q.content[p]
		q.indices[q.content[p]] = i
		i = p
		p = parent(p)
	}
	q.content[i] = x
	q.indices[x] = i
}

func (q *Queue) percolateDown(i int) {
	x := q.content[i]
	for left(i) < len(q.content) {
		child := left(i)
		if right(i) < len(q.content) && q.less(q.content[right(i)], q.content[left(i)]) {
			child = right(i)
		}
		if !q.less(q.content[child], x) {
			break
		}
		q.content[i] = q.content[child]
		q.indices[q.content[i]] = i
		i = child
	}
	q.content[i] = x
	q.indices[x] = i
}
