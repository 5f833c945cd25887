package bvh

import "fmt"

// InsertLeaf adds a leaf holding data with the given bounding volume and
// returns its handle.
//
// The first leaf becomes the root. Every later leaf is paired with the
// existing node that minimizes the surface-area cost of the tree (see
// findBestSibling) under a new internal node, and the volumes of all its
// ancestors are refit.
//
// InsertLeaf panics if volume is not valid (non-finite or inverted bounds).
func (t *Tree[D]) InsertLeaf(volume AABB, data D) NodeIdx {
	if !volume.IsValid() {
		panic(fmt.Sprintf("bvh: InsertLeaf with invalid volume %v", volume))
	}

	leaf := t.nodes.alloc(node[D]{
		volume: volume,
		kind:   NodeKindLeaf,
		data:   data,
	})
	t.leaves++

	if t.root.IsNil() {
		t.root = leaf
		t.search = searchStats{}
		t.emit(TreeEvent{Type: EventLeafInserted, Leaf: leaf, Root: leaf})
		t.emit(TreeEvent{Type: EventRootChanged, Leaf: leaf, Root: leaf})
		t.debugAfterInsert(leaf)
		return leaf
	}

	sibling := t.findBestSibling(volume)
	oldParent := t.nodes.get(sibling).parent

	parent := t.nodes.alloc(node[D]{
		parent: oldParent,
		volume: Join(volume, t.nodes.get(sibling).volume),
		kind:   NodeKindInternal,
		child1: sibling,
		child2: leaf,
	})
	t.nodes.get(leaf).parent = parent
	t.nodes.get(sibling).parent = parent

	rootChanged := false
	if oldParent.IsNil() {
		t.root = parent
		rootChanged = true
	} else {
		t.replaceChild(oldParent, sibling, parent)
	}

	t.refitAncestors(leaf)

	t.emit(TreeEvent{Type: EventLeafInserted, Leaf: leaf, Sibling: sibling, Parent: parent, Root: t.root})
	if rootChanged {
		t.emit(TreeEvent{Type: EventRootChanged, Leaf: leaf, Sibling: sibling, Parent: parent, Root: t.root})
	}
	t.debugAfterInsert(leaf)
	return leaf
}

// replaceChild points the child slot of p that holds old at repl instead.
// Exactly one slot must match.
func (t *Tree[D]) replaceChild(p, old, repl NodeIdx) {
	pn := t.nodes.get(p)
	if pn.kind != NodeKindInternal {
		panic(fmt.Sprintf("bvh: parent %v of %v is a leaf", p, old))
	}
	switch {
	case pn.child1 == old && pn.child2 == old:
		panic(fmt.Sprintf("bvh: both children of %v are %v", p, old))
	case pn.child1 == old:
		pn.child1 = repl
	case pn.child2 == old:
		pn.child2 = repl
	default:
		panic(fmt.Sprintf("bvh: %v is not a child of its parent %v", old, p))
	}
}

// refitNode recomputes an internal node's volume from its children. Leaves are
// left alone.
func (t *Tree[D]) refitNode(idx NodeIdx) {
	n := t.nodes.get(idx)
	switch n.kind {
	case NodeKindLeaf:
	case NodeKindInternal:
		n.volume = Join(t.nodes.get(n.child1).volume, t.nodes.get(n.child2).volume)
	}
}

// refitAncestors refits start and every ancestor up to the root.
func (t *Tree[D]) refitAncestors(start NodeIdx) {
	for idx := start; !idx.IsNil(); idx = t.nodes.get(idx).parent {
		t.refitNode(idx)
	}
}
