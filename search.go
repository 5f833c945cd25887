package bvh

import "container/heap"

// candidate is a node waiting to be evaluated as a sibling for a new leaf.
type candidate struct {
	idx NodeIdx
	// estimate is a lower bound on the cost of choosing idx or any node below
	// it. The queue pops the smallest estimate first.
	estimate float64
	// inherited is the growth in surface area every strict ancestor of idx
	// would see if the new leaf were placed below them.
	inherited float64
}

// candidateQueue is a min-heap of candidates ordered by estimate. Equal
// estimates pop in ascending slot order so searches are reproducible.
type candidateQueue []candidate

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	if q[i].estimate != q[j].estimate {
		return q[i].estimate < q[j].estimate
	}
	return q[i].idx.slot < q[j].idx.slot
}

func (q candidateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *candidateQueue) Push(x any) { *q = append(*q, x.(candidate)) }

func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

// searchStats records the work done by the most recent sibling search.
type searchStats struct {
	visited int // candidates popped and evaluated
	pushed  int // children queued
	pruned  int // subtrees or queued candidates skipped by the bound
}

// findBestSibling returns the node that, paired with a new leaf of volume v,
// minimizes
//
//	cost(C) = area(join(v, C)) + sum over ancestors A of C of (area(join(v, A)) - area(A))
//
// Branch and bound: for any node D below C, area(join(v, D)) >= area(v), so
// area(v) plus the growth inherited at C is a lower bound for the whole
// subtree. Subtrees whose bound cannot beat the best cost found so far are
// skipped. The result is exact for the cost above.
//
// The tree must not be empty.
func (t *Tree[D]) findBestSibling(v AABB) NodeIdx {
	leafArea := v.SurfaceArea()
	rootCost := Join(v, t.nodes.get(t.root).volume).SurfaceArea()

	best, bestCost := t.root, rootCost
	stats := searchStats{}

	q := t.queueBuf[:0]
	heap.Push(&q, candidate{idx: t.root, estimate: rootCost})

	for q.Len() > 0 {
		c := heap.Pop(&q).(candidate)
		if c.estimate > bestCost {
			// Every queued estimate is at least this one.
			stats.pruned += 1 + q.Len()
			break
		}
		n := t.nodes.get(c.idx)
		stats.visited++

		direct := Join(v, n.volume).SurfaceArea()
		total := direct + c.inherited
		if total < bestCost {
			best, bestCost = c.idx, total
		}

		switch n.kind {
		case NodeKindLeaf:
		case NodeKindInternal:
			inherited := c.inherited + direct - n.volume.SurfaceArea()
			lowerBound := leafArea + inherited
			if lowerBound >= bestCost {
				stats.pruned++
				continue
			}
			heap.Push(&q, candidate{idx: n.child1, estimate: lowerBound, inherited: inherited})
			heap.Push(&q, candidate{idx: n.child2, estimate: lowerBound, inherited: inherited})
			stats.pushed += 2
		}
	}

	t.queueBuf = q[:0]
	t.search = stats
	return best
}

// siblingCost evaluates the cost function of findBestSibling for one node
// directly by walking its ancestors, as a reference for the search.
func (t *Tree[D]) siblingCost(v AABB, idx NodeIdx) float64 {
	n := t.nodes.get(idx)
	cost := Join(v, n.volume).SurfaceArea()
	for p := n.parent; !p.IsNil(); p = t.nodes.get(p).parent {
		pv := t.nodes.get(p).volume
		cost += Join(v, pv).SurfaceArea() - pv.SurfaceArea()
	}
	return cost
}
