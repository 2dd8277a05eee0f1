package dbvt

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() *Tree {
	return NewTree(DefaultConfig())
}

func TestTreeInsertIncreasesSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	a := newTestBody("a", Vector3{0, 0, 0}, Vector3{1, 1, 1})
	b := newTestBody("b", Vector3{5, 5, 5}, Vector3{6, 6, 6})

	h1 := tree.Insert(a.AABB(), a)
	require.Equal(t, 1, tree.Size())
	h2 := tree.Insert(b.AABB(), b)
	require.Equal(t, 2, tree.Size())
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, tree.Root(), tree.Parent(h1))
}

func TestTreeAncestorsContainAllDescendants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	var handles []NodeHandle
	for i := 0; i < 30; i++ {
		f := float64(i)
		body := newTestBody("b", Vector3{f, f, f}, Vector3{f + 1, f + 1, f + 1})
		handles = append(handles, tree.Insert(body.AABB(), body))
	}

	assertContainsAllLeaves(t, tree, tree.Root())
	_ = handles
}

func assertContainsAllLeaves(t *testing.T, tree *Tree, h NodeHandle) AABB {
	t.Helper()
	if tree.IsLeaf(h) {
		return tree.BV(h)
	}
	l, r := tree.Children(h)
	lbv := assertContainsAllLeaves(t, tree, l)
	rbv := assertContainsAllLeaves(t, tree, r)
	bv := tree.BV(h)
	assert.True(t, bv.Contains(lbv), "internal node bv must contain left subtree bv")
	assert.True(t, bv.Contains(rbv), "internal node bv must contain right subtree bv")
	return bv
}

func TestTreeRemoveDecreasesSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	a := newTestBody("a", Vector3{0, 0, 0}, Vector3{1, 1, 1})
	b := newTestBody("b", Vector3{5, 5, 5}, Vector3{6, 6, 6})
	h1 := tree.Insert(a.AABB(), a)
	tree.Insert(b.AABB(), b)

	tree.Remove(h1)
	require.Equal(t, 1, tree.Size())
	assertContainsAllLeaves(t, tree, tree.Root())
}

func TestTreeRemoveLastLeafEmptiesTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	a := newTestBody("a", Vector3{0, 0, 0}, Vector3{1, 1, 1})
	h := tree.Insert(a.AABB(), a)
	tree.Remove(h)
	assert.True(t, tree.Empty())
	assert.Equal(t, NullHandle, tree.Root())
}

func TestTreeUpdateWithinFatBoundsIsNoop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	a := newTestBody("a", Vector3{0, 0, 0}, Vector3{1, 1, 1})
	h := tree.Insert(a.AABB(), a)
	before := tree.BV(h)

	// A tiny nudge, still inside the fattened leaf bv, must not reallocate.
	tree.Update(h, NewAABB(Vector3{0.01, 0.01, 0.01}, Vector3{1.01, 1.01, 1.01}))
	after := tree.BV(h)
	assert.Equal(t, before, after, "a pose change within the fat margin must be a no-op")
}

func TestTreeUpdateBeyondFatBoundsRefits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	a := newTestBody("a", Vector3{0, 0, 0}, Vector3{1, 1, 1})
	h := tree.Insert(a.AABB(), a)

	moved := NewAABB(Vector3{100, 100, 100}, Vector3{101, 101, 101})
	tree.Update(h, moved)
	require.Equal(t, 1, tree.Size())
	assert.True(t, tree.BV(tree.Root()).Contains(moved))
}

func TestTreeBalanceIncrementalDoesNotChangeLeafCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	for i := 0; i < 50; i++ {
		f := float64(i)
		body := newTestBody("b", Vector3{f, 0, 0}, Vector3{f + 1, 1, 1})
		tree.Insert(body.AABB(), body)
	}
	before := tree.Size()
	tree.BalanceIncremental(10)
	assert.Equal(t, before, tree.Size())
	assertContainsAllLeaves(t, tree, tree.Root())
}

func TestTreeBalanceTopdownPreservesLeafData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	bodies := make([]*testBody, 0, 40)
	for i := 0; i < 40; i++ {
		f := float64(i)
		body := newTestBody("b", Vector3{f, f * 2, 0}, Vector3{f + 1, f*2 + 1, 1})
		bodies = append(bodies, body)
		tree.Insert(body.AABB(), body)
	}

	tree.BalanceTopdown()
	assert.Equal(t, len(bodies), tree.Size())
	assertContainsAllLeaves(t, tree, tree.Root())

	seen := map[*testBody]bool{}
	var walk func(h NodeHandle)
	walk = func(h NodeHandle) {
		if tree.IsLeaf(h) {
			b := tree.Data(h).(*testBody)
			seen[b] = true
			return
		}
		l, r := tree.Children(h)
		walk(l)
		walk(r)
	}
	walk(tree.Root())
	for _, b := range bodies {
		assert.True(t, seen[b], "expected %s to survive BalanceTopdown", b.name)
	}
}

func TestTreeRefitMatchesRecomputedBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	for i := 0; i < 10; i++ {
		f := float64(i)
		body := newTestBody("b", Vector3{f, 0, 0}, Vector3{f + 1, 1, 1})
		tree.Insert(body.AABB(), body)
	}
	tree.Refit()
	assertContainsAllLeaves(t, tree, tree.Root())
}
