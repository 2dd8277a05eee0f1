package grid

import "dbvt"

// Collide runs the hierarchical-grid traversal of §4.G: query must
// implement Object (carry a Grid) or the call is a no-op. cb is invoked
// once per synthesized leaf interaction, receiving query as the first
// argument and the overlapping tree object as the second.
func Collide(tree *dbvt.Tree, query dbvt.Object, cb dbvt.OverlapCallback, cdata any) {
	go1, ok := query.(Object)
	if !ok || go1.Grid() == nil || tree.Root() == dbvt.NullHandle {
		return
	}
	g := go1.Grid()
	collideRecurse(tree, tree.Root(), g.Root, g.RootBV, query.Transform(), query, cb, cdata)
}

func collideRecurse(tree *dbvt.Tree, n1 dbvt.NodeHandle, gnode *GridNode, gbv dbvt.AABB, transform dbvt.Transform, query dbvt.Object, cb dbvt.OverlapCallback, cdata any) bool {
	if gnode.isFree() {
		return false
	}
	world := worldBV(gbv, transform)
	if !tree.BV(n1).Overlap(world) {
		return false
	}

	n1Leaf := tree.IsLeaf(n1)
	if !gnode.hasChildren() || (!n1Leaf && tree.BV(n1).Size() > world.Size()) {
		if n1Leaf {
			return cb(query, tree.Data(n1), cdata)
		}
		l, r := tree.Children(n1)
		if collideRecurse(tree, l, gnode, gbv, transform, query, cb, cdata) {
			return true
		}
		return collideRecurse(tree, r, gnode, gbv, transform, query, cb, cdata)
	}

	for octant, child := range gnode.Children {
		if child == nil {
			continue
		}
		childBV := octantBV(gbv, octant)
		if collideRecurse(tree, n1, child, childBV, transform, query, cb, cdata) {
			return true
		}
	}
	return false
}

// Distance is the distance analogue of Collide: the grid side additionally
// prunes any cell that is not isNodeOccupied, since an unoccupied cell
// contributes no physical surface to measure distance to.
func Distance(tree *dbvt.Tree, query dbvt.Object, cb dbvt.DistanceCallback, cdata any, startMinDist float64) float64 {
	minDist := startMinDist
	go1, ok := query.(Object)
	if !ok || go1.Grid() == nil || tree.Root() == dbvt.NullHandle {
		return minDist
	}
	g := go1.Grid()
	distanceRecurse(tree, tree.Root(), g.Root, g.RootBV, query.Transform(), query, cb, cdata, &minDist)
	return minDist
}

func distanceRecurse(tree *dbvt.Tree, n1 dbvt.NodeHandle, gnode *GridNode, gbv dbvt.AABB, transform dbvt.Transform, query dbvt.Object, cb dbvt.DistanceCallback, cdata any, minDist *float64) bool {
	if gnode.isFree() || !gnode.isNodeOccupied() {
		return false
	}
	world := worldBV(gbv, transform)
	if tree.BV(n1).Distance(world) > *minDist {
		return false
	}

	n1Leaf := tree.IsLeaf(n1)
	if !gnode.hasChildren() || (!n1Leaf && tree.BV(n1).Size() > world.Size()) {
		if n1Leaf {
			return cb(query, tree.Data(n1), cdata, minDist)
		}
		l, r := tree.Children(n1)
		dl := tree.BV(l).Distance(world)
		dr := tree.BV(r).Distance(world)
		first, second := l, r
		if dr < dl {
			first, second = r, l
		}
		if distanceRecurse(tree, first, gnode, gbv, transform, query, cb, cdata, minDist) {
			return true
		}
		return distanceRecurse(tree, second, gnode, gbv, transform, query, cb, cdata, minDist)
	}

	for octant, child := range gnode.Children {
		if child == nil {
			continue
		}
		childBV := octantBV(gbv, octant)
		if distanceRecurse(tree, n1, child, childBV, transform, query, cb, cdata, minDist) {
			return true
		}
	}
	return false
}
