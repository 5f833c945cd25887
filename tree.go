package bvh

import (
	"github.com/sirupsen/logrus"
)

// Tree is a dynamic bounding volume hierarchy over AABBs. Each leaf carries a
// caller payload of type D. Leaves are inserted one at a time; the tree is
// never rebuilt.
//
// A Tree is not safe for concurrent use. Queries reuse internal buffers, so
// even concurrent readers must be serialized by the owner.
type Tree[D any] struct {
	nodes arena[D]
	root  NodeIdx

	leaves int

	debug  bool
	log    logrus.FieldLogger
	sink   EventSink
	search searchStats

	// Reused between calls to avoid per-query allocation.
	stackBuf []NodeIdx
	queueBuf candidateQueue
}

// New creates an empty tree.
func New[D any]() *Tree[D] {
	return &Tree[D]{
		nodes: arena[D]{tag: nextTreeTag()},
		log:   defaultLogger,
	}
}

// Root returns the root handle. ok is false when the tree is empty.
func (t *Tree[D]) Root() (idx NodeIdx, ok bool) {
	return t.root, !t.root.IsNil()
}

// Len returns the number of nodes, leaves and internal nodes together.
func (t *Tree[D]) Len() int {
	return t.nodes.len()
}

// LeafCount returns the number of leaves.
func (t *Tree[D]) LeafCount() int {
	return t.leaves
}

// Empty reports whether no leaf has been inserted yet.
func (t *Tree[D]) Empty() bool {
	return t.root.IsNil()
}

// Contains reports whether idx refers to a node of this tree. Handles issued by
// another tree are rejected.
func (t *Tree[D]) Contains(idx NodeIdx) bool {
	return t.nodes.valid(idx)
}

// Kind returns whether idx is a leaf or an internal node.
func (t *Tree[D]) Kind(idx NodeIdx) NodeKind {
	return t.nodes.get(idx).kind
}

// IsLeaf reports whether idx is a leaf.
func (t *Tree[D]) IsLeaf(idx NodeIdx) bool {
	return t.nodes.get(idx).kind == NodeKindLeaf
}

// Volume returns the bounding box stored at idx.
func (t *Tree[D]) Volume(idx NodeIdx) AABB {
	return t.nodes.get(idx).volume
}

// Data returns the payload of a leaf. ok is false for internal nodes.
func (t *Tree[D]) Data(idx NodeIdx) (data D, ok bool) {
	n := t.nodes.get(idx)
	if n.kind != NodeKindLeaf {
		return data, false
	}
	return n.data, true
}

// Parent returns the parent of idx. ok is false for the root.
func (t *Tree[D]) Parent(idx NodeIdx) (parent NodeIdx, ok bool) {
	p := t.nodes.get(idx).parent
	return p, !p.IsNil()
}

// Children returns the two children of an internal node. ok is false for a
// leaf.
func (t *Tree[D]) Children(idx NodeIdx) (child1, child2 NodeIdx, ok bool) {
	n := t.nodes.get(idx)
	if n.kind != NodeKindInternal {
		return NodeIdx{}, NodeIdx{}, false
	}
	return n.child1, n.child2, true
}

// Depth returns the number of edges between idx and the root.
func (t *Tree[D]) Depth(idx NodeIdx) int {
	depth := 0
	for p := t.nodes.get(idx).parent; !p.IsNil(); p = t.nodes.get(p).parent {
		depth++
	}
	return depth
}

// Height returns the number of nodes on the longest root-to-leaf path. An
// empty tree has height 0 and a single leaf has height 1.
func (t *Tree[D]) Height() int {
	height := 0
	t.Walk(func(idx NodeIdx, depth int) bool {
		if depth+1 > height {
			height = depth + 1
		}
		return true
	})
	return height
}

// Walk visits every node in pre-order, passing its depth (root = 0). Returning
// false from fn skips the node's subtree.
func (t *Tree[D]) Walk(fn func(idx NodeIdx, depth int) bool) {
	if t.root.IsNil() {
		return
	}
	type entry struct {
		idx   NodeIdx
		depth int
	}
	stack := []entry{{t.root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes.get(top.idx)
		if !fn(top.idx, top.depth) {
			continue
		}
		switch n.kind {
		case NodeKindLeaf:
		case NodeKindInternal:
			// child1 is pushed last so it is visited first.
			stack = append(stack, entry{n.child2, top.depth + 1}, entry{n.child1, top.depth + 1})
		}
	}
}

// SetLogger replaces the logger used for debug output. Passing nil restores
// the package default.
func (t *Tree[D]) SetLogger(log logrus.FieldLogger) {
	if log == nil {
		log = defaultLogger
	}
	t.log = log
}

// SetEventSink sets the receiver for structural change events. nil disables
// events.
func (t *Tree[D]) SetEventSink(sink EventSink) {
	t.sink = sink
}
