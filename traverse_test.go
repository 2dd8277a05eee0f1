package dbvt

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func bruteForcePairs(bodies []*testBody) map[[2]string]bool {
	pairs := map[[2]string]bool{}
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bodies[i].bv.Overlap(bodies[j].bv) {
				key := [2]string{bodies[i].name, bodies[j].name}
				pairs[key] = true
			}
		}
	}
	return pairs
}

func TestCollideSelfMatchesBruteForce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	var bodies []*testBody
	// A deliberately overlap-heavy layout: every other box overlaps its
	// neighbors, some islands are fully separate.
	coords := [][2]float64{{0, 0}, {0.5, 0}, {5, 5}, {5.4, 5}, {10, 0}, {20, 20}, {20.3, 20.1}}
	for i, c := range coords {
		name := string(rune('a' + i))
		b := newTestBody(name, Vector3{c[0], c[1], 0}, Vector3{c[0] + 1, c[1] + 1, 1})
		bodies = append(bodies, b)
		tree.Insert(b.AABB(), b)
	}

	expected := bruteForcePairs(bodies)
	got := map[[2]string]bool{}
	tree.CollideSelf(func(a, b Object, cdata any) bool {
		na, nb := a.(*testBody).name, b.(*testBody).name
		if na > nb {
			na, nb = nb, na
		}
		got[[2]string{na, nb}] = true
		return false
	}, nil)

	assert.Equal(t, expected, got)
}

func TestCollideSelfStopsOnTrue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	for i := 0; i < 10; i++ {
		f := float64(i) * 0.1
		b := newTestBody("b", Vector3{f, 0, 0}, Vector3{f + 1, 1, 1})
		tree.Insert(b.AABB(), b)
	}
	count := 0
	tree.CollideSelf(func(a, b Object, cdata any) bool {
		count++
		return true
	}, nil)
	assert.Equal(t, 1, count, "callback returning true must stop the traversal immediately")
}

func TestDistanceSelfFindsTrueMinimum(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	coords := [][2]float64{{0, 0}, {10, 0}, {3, 0}, {3.5, 0}}
	var bodies []*testBody
	for i, c := range coords {
		name := string(rune('a' + i))
		b := newTestBody(name, Vector3{c[0], 0, 0}, Vector3{c[0] + 1, 1, 1})
		bodies = append(bodies, b)
		tree.Insert(b.AABB(), b)
	}

	bruteMin := math.Inf(1)
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			d := bodies[i].bv.Distance(bodies[j].bv)
			if d < bruteMin {
				bruteMin = d
			}
		}
	}

	got := tree.DistanceSelf(func(a, b Object, cdata any, minDist *float64) bool {
		d := a.(*testBody).bv.Distance(b.(*testBody).bv)
		if d < *minDist {
			*minDist = d
		}
		return false
	}, nil, math.Inf(1))

	assert.InDelta(t, bruteMin, got, 1e-9)
}

func TestCollideQueryFindsOverlappingLeaves(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	inside := newTestBody("inside", Vector3{0, 0, 0}, Vector3{1, 1, 1})
	outside := newTestBody("outside", Vector3{100, 100, 100}, Vector3{101, 101, 101})
	tree.Insert(inside.AABB(), inside)
	tree.Insert(outside.AABB(), outside)

	query := NewAABB(Vector3{0.5, 0.5, 0.5}, Vector3{2, 2, 2})
	var hit []string
	tree.CollideQuery(query, func(obj Object, cdata any) bool {
		hit = append(hit, obj.(*testBody).name)
		return false
	}, nil)

	assert.Equal(t, []string{"inside"}, hit)
}

func TestDistanceQueryFindsNearest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	tree := newTestTree()
	near := newTestBody("near", Vector3{2, 0, 0}, Vector3{3, 1, 1})
	far := newTestBody("far", Vector3{50, 0, 0}, Vector3{51, 1, 1})
	tree.Insert(near.AABB(), near)
	tree.Insert(far.AABB(), far)

	query := NewAABB(Vector3{0, 0, 0}, Vector3{1, 1, 1})
	var closest string
	tree.DistanceQuery(query, func(obj Object, cdata any, minDist *float64) bool {
		d := obj.(*testBody).bv.Distance(query)
		if d <= *minDist {
			*minDist = d
			closest = obj.(*testBody).name
		}
		return false
	}, nil, math.Inf(1))

	assert.Equal(t, "near", closest)
}
