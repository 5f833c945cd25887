package bvh

import "fmt"

// RayCast reports whether the segment from origin to target reaches any leaf.
// Subtrees whose volume the segment misses are pruned. Reaching a leaf's
// volume counts as a hit; callers that need an exact shape test use
// RayCastFunc. An empty tree never hits.
//
// RayCast panics if either endpoint is NaN or infinite.
func (t *Tree[D]) RayCast(origin, target Vec2) bool {
	checkSegment(origin, target)
	hit := false
	t.traverse(
		func(v AABB) bool { return v.RayCast(origin, target) },
		func(NodeIdx, *node[D]) bool {
			hit = true
			return false
		},
	)
	return hit
}

// RayCastFunc calls fn for every leaf whose volume the segment from origin to
// target touches. Order is depth-first and unspecified. Returning false from
// fn stops the traversal. Like RayCast, it panics on a non-finite endpoint.
func (t *Tree[D]) RayCastFunc(origin, target Vec2, fn func(idx NodeIdx, data D) bool) {
	checkSegment(origin, target)
	t.traverse(
		func(v AABB) bool { return v.RayCast(origin, target) },
		func(idx NodeIdx, n *node[D]) bool { return fn(idx, n.data) },
	)
}

// QueryAABB calls fn for every leaf whose volume overlaps box. Returning false
// from fn stops the query.
func (t *Tree[D]) QueryAABB(box AABB, fn func(idx NodeIdx, data D) bool) {
	t.traverse(
		box.Overlaps,
		func(idx NodeIdx, n *node[D]) bool { return fn(idx, n.data) },
	)
}

// QueryPoint calls fn for every leaf whose volume contains p. Returning false
// from fn stops the query.
func (t *Tree[D]) QueryPoint(p Vec2, fn func(idx NodeIdx, data D) bool) {
	t.traverse(
		func(v AABB) bool { return v.ContainsPoint(p) },
		func(idx NodeIdx, n *node[D]) bool { return fn(idx, n.data) },
	)
}

func checkSegment(origin, target Vec2) {
	if !origin.IsFinite() || !target.IsFinite() {
		panic(fmt.Sprintf("bvh: ray cast with non-finite endpoint %v -> %v", origin, target))
	}
}

// traverse walks the tree depth-first with an explicit stack. Nodes whose
// volume fails test are skipped with their subtree; leaves that pass are handed
// to visit, which returns false to stop.
func (t *Tree[D]) traverse(test func(AABB) bool, visit func(NodeIdx, *node[D]) bool) {
	if t.root.IsNil() {
		return
	}
	// The buffer is detached while in use so a query issued from inside visit
	// gets its own stack.
	stack := append(t.stackBuf[:0], t.root)
	t.stackBuf = nil
	defer func() { t.stackBuf = stack[:0] }()

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes.get(idx)
		if !test(n.volume) {
			continue
		}
		switch n.kind {
		case NodeKindLeaf:
			if !visit(idx, n) {
				return
			}
		case NodeKindInternal:
			stack = append(stack, n.child1, n.child2)
		}
	}
}
