package dbvt

// Tree is the binary AABB hierarchy of §4.B: a self-balancing tree of
// bounding volumes built over an Arena. Tree is not safe for concurrent use
// (§5); callers serialize access through Manager.
type Tree struct {
	arena     *arena
	root      NodeHandle
	nodeCount int
	cfg       Config
}

// NewTree returns an empty Tree using cfg's tunables. Most callers should
// go through NewManager instead; NewTree is exposed directly for packages
// (and tests) that only need the hierarchy without object-table/lifecycle
// bookkeeping, e.g. dbvt/grid's traversal tests.
func NewTree(cfg Config) *Tree {
	return &Tree{arena: newArena(), root: NullHandle, cfg: cfg}
}

// Root returns the handle of the tree's root node, or NullHandle if the
// tree is empty.
func (t *Tree) Root() NodeHandle { return t.root }

// Size returns the number of leaves currently in the tree.
func (t *Tree) Size() int { return t.nodeCount }

// Empty reports whether the tree holds no leaves.
func (t *Tree) Empty() bool { return t.nodeCount == 0 }

// MaxHeight returns the height of the root, 0 for an empty or single-leaf
// tree.
func (t *Tree) MaxHeight() int {
	if t.root == NullHandle {
		return 0
	}
	return t.arena.get(t.root).height
}

// BV returns the (possibly fattened, for a leaf) bounding volume stored at h.
func (t *Tree) BV(h NodeHandle) AABB { return t.arena.get(h).bv }

// IsLeaf reports whether h names a leaf node.
func (t *Tree) IsLeaf(h NodeHandle) bool { return t.arena.get(h).isLeaf() }

// Children returns h's two children. For a leaf both are NullHandle.
func (t *Tree) Children(h NodeHandle) (NodeHandle, NodeHandle) {
	n := t.arena.get(h)
	if n.isLeaf() {
		return NullHandle, NullHandle
	}
	return n.children[0], n.children[1]
}

// Parent returns h's parent, or NullHandle if h is the root.
func (t *Tree) Parent(h NodeHandle) NodeHandle { return t.arena.get(h).parent }

// Height returns the stored height at h (0 on leaves).
func (t *Tree) Height(h NodeHandle) int { return t.arena.get(h).height }

// Data returns the leaf payload at h. Only valid when IsLeaf(h) is true.
func (t *Tree) Data(h NodeHandle) Object { return t.arena.get(h).data }

// Insert creates a leaf holding (bv, data), fattened by the tree's
// configured margin, and grafts it under the current root using the
// best-sibling cost rule of §4.B. Ancestors are refit and locally
// rebalanced on the way back up to the root.
func (t *Tree) Insert(bv AABB, data Object) NodeHandle {
	leaf := t.arena.allocate()
	n := t.arena.get(leaf)
	n.bv = bv.Fattened(t.cfg.FatMargin)
	n.data = data
	n.height = 0
	t.nodeCount++

	t.insertLeaf(leaf)
	return leaf
}

// insertLeaf grafts an already-allocated leaf handle into the tree.
func (t *Tree) insertLeaf(leaf NodeHandle) {
	if t.root == NullHandle {
		t.root = leaf
		t.arena.get(leaf).parent = NullHandle
		return
	}

	leafAABB := t.arena.get(leaf).bv
	sibling := t.bestSibling(leafAABB)

	oldParent := t.arena.get(sibling).parent
	newParent := t.arena.allocate()
	np := t.arena.get(newParent)
	np.parent = oldParent
	np.bv = Merged(leafAABB, t.arena.get(sibling).bv)
	np.height = t.arena.get(sibling).height + 1

	if oldParent != NullHandle {
		op := t.arena.get(oldParent)
		if op.children[0] == sibling {
			op.children[0] = newParent
		} else {
			op.children[1] = newParent
		}
	} else {
		t.root = newParent
	}

	np.children[0] = sibling
	np.children[1] = leaf
	t.arena.get(sibling).parent = newParent
	t.arena.get(leaf).parent = newParent

	t.refitAndBalanceFrom(newParent)
}

// bestSibling descends from the root choosing, at each internal node, the
// child whose insertion cost is lower, per the cost formula of §4.B. Ties
// break toward children[0] because the loop only descends into children[1]
// when its cost is strictly lower.
func (t *Tree) bestSibling(leafAABB AABB) NodeHandle {
	index := t.root
	for !t.arena.get(index).isLeaf() {
		n := t.arena.get(index)
		child0, child1 := n.children[0], n.children[1]

		area := n.bv.Size()
		combined := Merged(n.bv, leafAABB)
		combinedArea := combined.Size()

		cost := 2 * combinedArea
		inheritCost := 2 * (combinedArea - area)

		cost0 := t.descendCost(child0, leafAABB, inheritCost)
		cost1 := t.descendCost(child1, leafAABB, inheritCost)

		if cost < cost0 && cost < cost1 {
			break
		}
		if cost1 < cost0 {
			index = child1
		} else {
			index = child0
		}
	}
	return index
}

func (t *Tree) descendCost(child NodeHandle, leafAABB AABB, inheritCost float64) float64 {
	c := t.arena.get(child)
	merged := Merged(leafAABB, c.bv)
	if c.isLeaf() {
		return merged.Size() + inheritCost
	}
	return (merged.Size() - c.bv.Size()) + inheritCost
}

// refitAndBalanceFrom walks from h up to the root, rebalancing and
// recomputing bv/height at each ancestor (the "rebalance locally" step of
// §4.B's Insert contract).
func (t *Tree) refitAndBalanceFrom(h NodeHandle) {
	index := h
	for index != NullHandle {
		index = t.balance(index)
		n := t.arena.get(index)
		left, right := t.arena.get(n.children[0]), t.arena.get(n.children[1])
		n.height = 1 + max(left.height, right.height)
		n.bv = Merged(left.bv, right.bv)
		index = n.parent
	}
}

// balance performs at most one AVL-style rotation at iA, swapping a child
// with its nephew when doing so reduces height imbalance (§4.B
// balanceIncremental, and the local rebalance step of Insert/Remove). It
// returns the handle of whatever node now occupies iA's former position
// (iA itself if no rotation was needed).
func (t *Tree) balance(iA NodeHandle) NodeHandle {
	A := t.arena.get(iA)
	if A.isLeaf() || A.height < 2 {
		return iA
	}
	iB, iC := A.children[0], A.children[1]
	B, C := t.arena.get(iB), t.arena.get(iC)

	balanceFactor := C.height - B.height

	if balanceFactor > 1 {
		return t.rotate(iA, iC, iB)
	}
	if balanceFactor < -1 {
		return t.rotate(iA, iB, iC)
	}
	return iA
}

// rotate pulls iHigh (the taller child of iA) up to replace iA. iHigh's
// taller grandchild stays under iHigh; its shorter grandchild moves down to
// join iOther (iA's other, shorter child) as iA's new children. This is the
// single shared implementation of both rotation directions in balance.
func (t *Tree) rotate(iA, iHigh, iOther NodeHandle) NodeHandle {
	A := t.arena.get(iA)
	High := t.arena.get(iHigh)
	Other := t.arena.get(iOther)
	assert(!High.isLeaf(), "rotate called with a leaf as the taller child")

	iF, iG := High.children[0], High.children[1]
	F, G := t.arena.get(iF), t.arena.get(iG)

	High.parent = A.parent
	A.parent = iHigh
	if High.parent != NullHandle {
		p := t.arena.get(High.parent)
		if p.children[0] == iA {
			p.children[0] = iHigh
		} else {
			p.children[1] = iHigh
		}
	} else {
		t.root = iHigh
	}

	var keep, moved NodeHandle
	var keepNode, movedNode *node
	if F.height > G.height {
		keep, keepNode = iG, G
		moved, movedNode = iF, F
	} else {
		keep, keepNode = iF, F
		moved, movedNode = iG, G
	}

	High.children[0] = iA
	High.children[1] = moved
	movedNode.parent = iHigh

	A.children[0] = iOther
	A.children[1] = keep
	keepNode.parent = iA

	A.bv = Merged(Other.bv, keepNode.bv)
	A.height = 1 + max(Other.height, keepNode.height)
	High.bv = Merged(A.bv, movedNode.bv)
	High.height = 1 + max(A.height, movedNode.height)

	return iHigh
}

// Remove deletes the leaf at h. If h is the root, the tree becomes empty.
// Otherwise h's sibling replaces their shared parent under the
// grandparent, and ancestors from the grandparent up are refit and
// rebalanced.
func (t *Tree) Remove(h NodeHandle) {
	if h == t.root {
		t.root = NullHandle
		t.arena.free(h)
		t.nodeCount--
		return
	}

	parent := t.arena.get(h).parent
	grandparent := t.arena.get(parent).parent
	p := t.arena.get(parent)
	var sibling NodeHandle
	if p.children[0] == h {
		sibling = p.children[1]
	} else {
		sibling = p.children[0]
	}

	if grandparent != NullHandle {
		g := t.arena.get(grandparent)
		if g.children[0] == parent {
			g.children[0] = sibling
		} else {
			g.children[1] = sibling
		}
		t.arena.get(sibling).parent = grandparent
		t.arena.free(parent)
		t.refitAndBalanceFrom(grandparent)
	} else {
		t.root = sibling
		t.arena.get(sibling).parent = NullHandle
		t.arena.free(parent)
	}

	t.arena.free(h)
	t.nodeCount--
}

// Update moves the leaf at h to a new raw (un-fattened) AABB. If the
// currently stored (fattened) bv already contains newBV, this is a no-op
// (§4.B "A leaf whose new bv equals the stored one"); otherwise the leaf is
// removed and reinserted with newBV, fattened again.
func (t *Tree) Update(h NodeHandle, newBV AABB) {
	n := t.arena.get(h)
	if n.bv.Contains(newBV) {
		return
	}
	data := n.data
	t.Remove(h)
	t.insertWithHandle(newBV, data)
}

// insertWithHandle is Insert without touching nodeCount bookkeeping twice;
// Update already decremented it via Remove.
func (t *Tree) insertWithHandle(bv AABB, data Object) NodeHandle {
	leaf := t.arena.allocate()
	n := t.arena.get(leaf)
	n.bv = bv.Fattened(t.cfg.FatMargin)
	n.data = data
	n.height = 0
	t.nodeCount++
	t.insertLeaf(leaf)
	return leaf
}

// Refit recomputes every internal bv bottom-up from the current leaf bvs,
// without changing topology (§4.B). O(n).
func (t *Tree) Refit() {
	if t.root == NullHandle {
		return
	}
	t.refitSubtree(t.root)
}

func (t *Tree) refitSubtree(h NodeHandle) {
	n := t.arena.get(h)
	if n.isLeaf() {
		return
	}
	t.refitSubtree(n.children[0])
	t.refitSubtree(n.children[1])
	left, right := t.arena.get(n.children[0]), t.arena.get(n.children[1])
	n.bv = Merged(left.bv, right.bv)
	n.height = 1 + max(left.height, right.height)
}

// BalanceIncremental performs at most passes local rotations, walking the
// tree in a deterministic pre-order starting at the root, rotating at any
// node whose children differ in height by more than one (§4.B).
func (t *Tree) BalanceIncremental(passes int) {
	if t.root == NullHandle || passes <= 0 {
		return
	}
	stack := []NodeHandle{t.root}
	done := 0
	for len(stack) > 0 && done < passes {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.arena.get(h)
		if n.isLeaf() {
			continue
		}
		rotated := t.balance(h)
		if rotated != h {
			done++
		}
		n = t.arena.get(rotated)
		stack = append(stack, n.children[0], n.children[1])
	}
}

// BalanceTopdown rebuilds the tree from its current leaf set using a
// top-down centroid-median split (§4.B, §4.I), discarding the previous
// internal-node topology entirely. The leaf set (and therefore every
// NodeHandle previously returned for a leaf) is preserved by reusing the
// same leaf slots; only internal nodes are recycled and reallocated.
func (t *Tree) BalanceTopdown() {
	if t.root == NullHandle {
		return
	}
	leaves := make([]NodeHandle, 0, t.nodeCount)
	t.collectLeaves(t.root, &leaves)
	t.freeInternalNodes(t.root)
	t.root = t.buildTopDown(leaves, t.cfg.TopdownLevel)
	if t.root != NullHandle {
		t.arena.get(t.root).parent = NullHandle
	}
}

func (t *Tree) collectLeaves(h NodeHandle, out *[]NodeHandle) {
	n := t.arena.get(h)
	if n.isLeaf() {
		*out = append(*out, h)
		return
	}
	t.collectLeaves(n.children[0], out)
	t.collectLeaves(n.children[1], out)
}

func (t *Tree) freeInternalNodes(h NodeHandle) {
	n := t.arena.get(h)
	if n.isLeaf() {
		return
	}
	t.freeInternalNodes(n.children[0])
	t.freeInternalNodes(n.children[1])
	t.arena.free(h)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
