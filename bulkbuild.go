package dbvt

import "sort"

// buildTopDown recursively partitions leaves by a centroid-median split
// along the axis of greatest centroid extent (§4.B, §4.I), switching to a
// linear chain once the leaf count drops to cfg.TopdownBalanceThreshold.
// level is the depth of this call; it is passed down the recursion but does
// not change the split rule, which is the centroid-median split at every
// depth. It returns the handle of the subtree root; leaves is consumed
// (sorted in place).
func (t *Tree) buildTopDown(leaves []NodeHandle, level int) NodeHandle {
	if len(leaves) == 0 {
		return NullHandle
	}
	if len(leaves) == 1 {
		return leaves[0]
	}
	if len(leaves) <= t.cfg.TopdownBalanceThreshold {
		return t.chainLeaves(leaves)
	}

	axis := t.splitAxis(leaves)
	sort.Slice(leaves, func(i, j int) bool {
		return t.arena.get(leaves[i]).bv.Center().Component(axis) <
			t.arena.get(leaves[j]).bv.Center().Component(axis)
	})

	mid := len(leaves) / 2
	left := t.buildTopDown(leaves[:mid], level+1)
	right := t.buildTopDown(leaves[mid:], level+1)
	return t.mergeInternal(left, right)
}

// splitAxis returns the axis (0=X, 1=Y, 2=Z) along which leaves' centroids
// span the greatest extent.
func (t *Tree) splitAxis(leaves []NodeHandle) int {
	min := t.arena.get(leaves[0]).bv.Center()
	max := min
	for _, h := range leaves[1:] {
		c := t.arena.get(h).bv.Center()
		min = min.Min(c)
		max = max.Max(c)
	}
	extent := max.Sub(min)
	axis := 0
	best := extent.X
	if extent.Y > best {
		axis, best = 1, extent.Y
	}
	if extent.Z > best {
		axis = 2
	}
	return axis
}

// chainLeaves folds leaves into a left-leaning linear chain of internal
// nodes, used once a top-down split reaches cfg.TopdownBalanceThreshold
// leaves.
func (t *Tree) chainLeaves(leaves []NodeHandle) NodeHandle {
	h := leaves[0]
	for _, next := range leaves[1:] {
		h = t.mergeInternal(h, next)
	}
	return h
}

// mergeInternal allocates a fresh internal node over left and right,
// wiring parent pointers both ways and computing its bv/height. The new
// node's own parent is left NullHandle for the caller to fill in.
func (t *Tree) mergeInternal(left, right NodeHandle) NodeHandle {
	parent := t.arena.allocate()
	l, r := t.arena.get(left), t.arena.get(right)
	p := t.arena.get(parent)
	p.children[0] = left
	p.children[1] = right
	p.bv = Merged(l.bv, r.bv)
	p.height = 1 + max(l.height, r.height)
	p.parent = NullHandle
	l.parent = parent
	r.parent = parent
	return parent
}
