package bvh

import (
	"fmt"
	"sync/atomic"
)

// NodeKind distinguishes the two kinds of tree node.
type NodeKind uint8

const (
	NodeKindLeaf     NodeKind = iota // holds a caller payload, no children
	NodeKindInternal                 // exactly two children, no payload
)

// String implements fmt.Stringer.
func (k NodeKind) String() string {
	switch k {
	case NodeKindLeaf:
		return "leaf"
	case NodeKindInternal:
		return "internal"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// NodeIdx is a stable handle to a node in a Tree's arena. The zero value refers
// to no node. A handle stays valid for the lifetime of the node it was issued
// for. Its generation starts at a value unique to the issuing tree, so a
// lookup detects handles from another tree as well as handles whose slot has
// been handed to a different node.
type NodeIdx struct {
	slot uint32
	gen  uint32
}

// IsNil reports whether the handle refers to no node.
func (i NodeIdx) IsNil() bool { return i.gen == 0 }

// String implements fmt.Stringer.
func (i NodeIdx) String() string {
	if i.IsNil() {
		return "NodeIdx(nil)"
	}
	return fmt.Sprintf("NodeIdx(%d#%d)", i.slot, i.gen)
}

// node is one arena record. Leaf and internal nodes share the record; kind
// selects which fields are meaningful.
type node[D any] struct {
	gen    uint32
	parent NodeIdx
	volume AABB
	kind   NodeKind

	// NodeKindInternal
	child1, child2 NodeIdx

	// NodeKindLeaf
	data D
}

// arena owns node storage. Slots are never freed, so generations only change
// if a slot is reused by a future removal operation.
type arena[D any] struct {
	nodes []node[D]
	// tag is the generation given to fresh nodes. New sets it per tree; the
	// zero arena uses 1.
	tag uint32
}

var lastTreeTag atomic.Uint32

// nextTreeTag returns a non-zero generation for a new tree's arena. Tags only
// repeat after 2^32 trees.
func nextTreeTag() uint32 {
	for {
		if tag := lastTreeTag.Add(1); tag != 0 {
			return tag
		}
	}
}

// alloc appends n and returns its handle.
func (a *arena[D]) alloc(n node[D]) NodeIdx {
	slot := uint32(len(a.nodes))
	if n.gen == 0 {
		n.gen = a.tag
	}
	if n.gen == 0 {
		n.gen = 1
	}
	a.nodes = append(a.nodes, n)
	return NodeIdx{slot: slot, gen: n.gen}
}

// get returns the node for idx. A nil, out-of-range, stale, or foreign handle
// means the tree structure is corrupt or the caller kept a handle from another
// tree, and panics.
func (a *arena[D]) get(idx NodeIdx) *node[D] {
	if idx.IsNil() || int(idx.slot) >= len(a.nodes) {
		panic(fmt.Sprintf("bvh: invalid index %v", idx))
	}
	n := &a.nodes[idx.slot]
	if n.gen != idx.gen {
		panic(fmt.Sprintf("bvh: stale or foreign index %v (slot generation %d)", idx, n.gen))
	}
	return n
}

// valid reports whether idx resolves to a live node.
func (a *arena[D]) valid(idx NodeIdx) bool {
	return !idx.IsNil() && int(idx.slot) < len(a.nodes) && a.nodes[idx.slot].gen == idx.gen
}

func (a *arena[D]) len() int { return len(a.nodes) }

// handle rebuilds the handle of the node stored in slot.
func (a *arena[D]) handle(slot int) NodeIdx {
	return NodeIdx{slot: uint32(slot), gen: a.nodes[slot].gen}
}
