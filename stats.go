package bvh

// TreeStats summarizes the shape of a tree and the cost of the most recent
// insertion.
type TreeStats struct {
	Nodes     int
	Leaves    int
	Internals int
	Height    int

	// RootArea is the surface area of the root volume.
	RootArea float64
	// InternalArea is the summed surface area of all internal nodes, the
	// quantity the insertion heuristic tries to keep small.
	InternalArea float64

	// Sibling search counters from the last InsertLeaf on a non-empty tree.
	SearchVisited int
	SearchPushed  int
	SearchPruned  int
}

// Stats computes TreeStats by walking the whole tree.
func (t *Tree[D]) Stats() TreeStats {
	s := TreeStats{
		Nodes:         t.nodes.len(),
		Leaves:        t.leaves,
		SearchVisited: t.search.visited,
		SearchPushed:  t.search.pushed,
		SearchPruned:  t.search.pruned,
	}
	if t.root.IsNil() {
		return s
	}
	s.RootArea = t.nodes.get(t.root).volume.SurfaceArea()
	t.Walk(func(idx NodeIdx, depth int) bool {
		if depth+1 > s.Height {
			s.Height = depth + 1
		}
		n := t.nodes.get(idx)
		if n.kind == NodeKindInternal {
			s.Internals++
			s.InternalArea += n.volume.SurfaceArea()
		}
		return true
	})
	return s
}
