package bvh

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every error returned from Validate.
var ErrInvariant = errors.New("bvh: invariant violated")

// Validate checks the structural invariants of the tree:
//
//   - the root has no parent and every other node's parent lists it as a child
//   - internal nodes have two distinct children and leaves have none
//   - an internal node's volume equals the join of its children's volumes
//   - every node in the arena is reachable from the root exactly once
//   - leaves outnumber internal nodes by exactly one
//
// It returns nil for an empty tree with an empty arena.
func (t *Tree[D]) Validate() error {
	if t.root.IsNil() {
		if t.nodes.len() != 0 {
			return fmt.Errorf("%w: empty tree holds %d nodes", ErrInvariant, t.nodes.len())
		}
		return nil
	}
	if !t.nodes.valid(t.root) {
		return fmt.Errorf("%w: root %v is not in the arena", ErrInvariant, t.root)
	}
	if p := t.nodes.get(t.root).parent; !p.IsNil() {
		return fmt.Errorf("%w: root %v has parent %v", ErrInvariant, t.root, p)
	}

	seen := make([]bool, t.nodes.len())
	leaves, internals := 0, 0
	stack := []NodeIdx{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[idx.slot] {
			return fmt.Errorf("%w: %v reached twice", ErrInvariant, idx)
		}
		seen[idx.slot] = true

		n := t.nodes.get(idx)
		switch n.kind {
		case NodeKindLeaf:
			leaves++
			if !n.child1.IsNil() || !n.child2.IsNil() {
				return fmt.Errorf("%w: leaf %v has children", ErrInvariant, idx)
			}
		case NodeKindInternal:
			internals++
			if n.child1 == n.child2 {
				return fmt.Errorf("%w: %v has the same child twice", ErrInvariant, idx)
			}
			for _, c := range [2]NodeIdx{n.child1, n.child2} {
				if !t.nodes.valid(c) {
					return fmt.Errorf("%w: %v has dangling child %v", ErrInvariant, idx, c)
				}
				if p := t.nodes.get(c).parent; p != idx {
					return fmt.Errorf("%w: child %v of %v has parent %v", ErrInvariant, c, idx, p)
				}
			}
			want := Join(t.nodes.get(n.child1).volume, t.nodes.get(n.child2).volume)
			if n.volume != want {
				return fmt.Errorf("%w: %v volume %v, want %v", ErrInvariant, idx, n.volume, want)
			}
			stack = append(stack, n.child1, n.child2)
		default:
			return fmt.Errorf("%w: %v has unknown kind %v", ErrInvariant, idx, n.kind)
		}
	}

	for slot, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: %v is unreachable from the root", ErrInvariant, t.nodes.handle(slot))
		}
	}
	if leaves != internals+1 {
		return fmt.Errorf("%w: %d leaves and %d internal nodes", ErrInvariant, leaves, internals)
	}
	if leaves != t.leaves {
		return fmt.Errorf("%w: counted %d leaves, tree records %d", ErrInvariant, leaves, t.leaves)
	}
	return nil
}
