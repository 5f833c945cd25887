// Package bvh is a dynamic bounding volume hierarchy over 2D axis-aligned
// bounding boxes, used as the broad phase for ray casts and overlap queries
// over moving game objects.
//
// # Quick start
//
//	tree := bvh.New[EntityID]()
//	tree.InsertLeaf(bvh.AABBFromRect(x, y, w, h), id)
//
//	if tree.RayCast(bvh.Vec2{X: 0, Y: 0}, bvh.Vec2{X: 100, Y: 40}) {
//		// something is in the way
//	}
//
// # Insertion
//
// Leaves are inserted one at a time without rebuilding the tree. A new leaf is
// paired with the existing node that minimizes the surface-area heuristic (the
// perimeter of the new internal node plus the growth of every ancestor),
// found by a branch-and-bound search, and the ancestors are refit bottom-up.
// The tree is not rebalanced, so adversarial insertion orders can degrade it;
// [Tree.Stats] reports the height and total internal area.
//
// # Queries
//
// [Tree.RayCast] answers whether a segment reaches any leaf volume.
// [Tree.RayCastFunc], [Tree.QueryAABB] and [Tree.QueryPoint] hand each
// candidate leaf to a callback, which is where a caller runs its own exact
// shape test.
//
// # Handles
//
// Nodes live in an arena and are addressed by [NodeIdx] handles. A handle
// carries a generation tag that starts at a value unique to the tree that
// issued it, so accessors panic on a handle from another tree instead of
// reading an unrelated node. Nodes are never removed.
//
// # Debugging
//
// [Tree.SetDebugMode] validates the tree after every insertion and logs search
// statistics through logrus. [Tree.Validate] can also be called directly.
// Package debugdraw renders a tree with Ebitengine and package ecs wires a
// tree into a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package bvh
