package dbvt

// collidePair is the shared double-recursive overlap traversal of §4.E: at
// each step it descends into whichever side is not a leaf, preferring the
// taller side when both are internal so that the traversal shape stays
// balanced regardless of which tree is "A". Same-tree callers (CollideSelf)
// pass treeA == treeB.
func collidePair(treeA, treeB *Tree, a, b NodeHandle, cb OverlapCallback, cdata any) bool {
	if !treeA.BV(a).Overlap(treeB.BV(b)) {
		return false
	}
	aLeaf, bLeaf := treeA.IsLeaf(a), treeB.IsLeaf(b)
	if aLeaf && bLeaf {
		return cb(treeA.Data(a), treeB.Data(b), cdata)
	}
	if bLeaf || (!aLeaf && treeA.Height(a) >= treeB.Height(b)) {
		a0, a1 := treeA.Children(a)
		if collidePair(treeA, treeB, a0, b, cb, cdata) {
			return true
		}
		return collidePair(treeA, treeB, a1, b, cb, cdata)
	}
	b0, b1 := treeB.Children(b)
	if collidePair(treeA, treeB, a, b0, cb, cdata) {
		return true
	}
	return collidePair(treeA, treeB, a, b1, cb, cdata)
}

// CollideTwo reports every overlapping leaf pair (one leaf from t, one from
// other) to cb, stopping early if cb returns true.
func (t *Tree) CollideTwo(other *Tree, cb OverlapCallback, cdata any) {
	if t.root == NullHandle || other.root == NullHandle {
		return
	}
	collidePair(t, other, t.root, other.root, cb, cdata)
}

// CollideSelf reports every overlapping leaf pair within t exactly once,
// never pairing a leaf with itself (§4.E "self traversal").
func (t *Tree) CollideSelf(cb OverlapCallback, cdata any) {
	if t.root == NullHandle || t.IsLeaf(t.root) {
		return
	}
	t.selfCollideRecurse(t.root, cb, cdata)
}

func (t *Tree) selfCollideRecurse(h NodeHandle, cb OverlapCallback, cdata any) bool {
	if t.IsLeaf(h) {
		return false
	}
	l, r := t.Children(h)
	if t.selfCollideRecurse(l, cb, cdata) {
		return true
	}
	if t.selfCollideRecurse(r, cb, cdata) {
		return true
	}
	return collidePair(t, t, l, r, cb, cdata)
}

// distancePair is the distance analogue of collidePair: it prunes any
// subtree whose bv-to-bv distance already exceeds *minDist, and descends
// into the nearer child first to tighten the bound as early as possible
// (§4.E "distance pruning").
func distancePair(treeA, treeB *Tree, a, b NodeHandle, cb DistanceCallback, cdata any, minDist *float64) bool {
	if treeA.BV(a).Distance(treeB.BV(b)) > *minDist {
		return false
	}
	aLeaf, bLeaf := treeA.IsLeaf(a), treeB.IsLeaf(b)
	if aLeaf && bLeaf {
		return cb(treeA.Data(a), treeB.Data(b), cdata, minDist)
	}
	if bLeaf || (!aLeaf && treeA.Height(a) >= treeB.Height(b)) {
		a0, a1 := treeA.Children(a)
		d0 := treeA.BV(a0).Distance(treeB.BV(b))
		d1 := treeA.BV(a1).Distance(treeB.BV(b))
		first, second := a0, a1
		if d1 < d0 {
			first, second = a1, a0
		}
		if distancePair(treeA, treeB, first, b, cb, cdata, minDist) {
			return true
		}
		return distancePair(treeA, treeB, second, b, cb, cdata, minDist)
	}
	b0, b1 := treeB.Children(b)
	d0 := treeA.BV(a).Distance(treeB.BV(b0))
	d1 := treeA.BV(a).Distance(treeB.BV(b1))
	first, second := b0, b1
	if d1 < d0 {
		first, second = b1, b0
	}
	if distancePair(treeA, treeB, a, first, cb, cdata, minDist) {
		return true
	}
	return distancePair(treeA, treeB, a, second, cb, cdata, minDist)
}

// DistanceTwo runs a pruned nearest-pair search between t and other,
// starting from the bound startMinDist (use +Inf for an unbounded search),
// and returns the tightest distance found.
func (t *Tree) DistanceTwo(other *Tree, cb DistanceCallback, cdata any, startMinDist float64) float64 {
	minDist := startMinDist
	if t.root == NullHandle || other.root == NullHandle {
		return minDist
	}
	distancePair(t, other, t.root, other.root, cb, cdata, &minDist)
	return minDist
}

// DistanceSelf is the self-traversal analogue of DistanceTwo.
func (t *Tree) DistanceSelf(cb DistanceCallback, cdata any, startMinDist float64) float64 {
	minDist := startMinDist
	if t.root == NullHandle || t.IsLeaf(t.root) {
		return minDist
	}
	t.selfDistanceRecurse(t.root, cb, cdata, &minDist)
	return minDist
}

func (t *Tree) selfDistanceRecurse(h NodeHandle, cb DistanceCallback, cdata any, minDist *float64) bool {
	if t.IsLeaf(h) {
		return false
	}
	l, r := t.Children(h)
	if t.selfDistanceRecurse(l, cb, cdata, minDist) {
		return true
	}
	if t.selfDistanceRecurse(r, cb, cdata, minDist) {
		return true
	}
	return distancePair(t, t, l, r, cb, cdata, minDist)
}
