// Package grid implements the hierarchical occupancy grid (octree) of §4.G:
// an 8-ary tree of bounding cells carrying occupancy status, used as an
// alternative query geometry against a dbvt.Tree. It is built purely
// against dbvt's exported accessor API (Tree.Root, Tree.BV, Tree.Children,
// ...), never its unexported arena internals, so the package graph stays
// acyclic (dbvt never imports grid).
package grid

import "dbvt"

// Default cell parameters used when a GridNode does not override them.
const (
	DefaultCostDensity       = 1.0
	DefaultThresholdOccupied = 0.5
)

// GridNode is one cell of the occupancy grid. A nil child means that
// octant is unsubdivided; Free and Occupied are independent because a cell
// can be known-empty, known-occupied, or unknown (neither flag set).
type GridNode struct {
	Children          [8]*GridNode
	Free              bool
	Occupied          bool
	CostDensity       float64
	ThresholdOccupied float64
}

// NewGridNode returns a leaf cell with the default cost parameters.
func NewGridNode() *GridNode {
	return &GridNode{CostDensity: DefaultCostDensity, ThresholdOccupied: DefaultThresholdOccupied}
}

func (n *GridNode) hasChildren() bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if c != nil {
			return true
		}
	}
	return false
}

func (n *GridNode) isNodeOccupied() bool {
	if n == nil {
		return false
	}
	if n.Occupied {
		return true
	}
	return n.CostDensity >= n.thresholdOrDefault()
}

func (n *GridNode) isFree() bool {
	return n != nil && n.Free
}

func (n *GridNode) thresholdOrDefault() float64 {
	if n.ThresholdOccupied == 0 {
		return DefaultThresholdOccupied
	}
	return n.ThresholdOccupied
}

// Grid is a complete occupancy octree: a root cell paired with the
// untransformed bounding box it spans.
type Grid struct {
	Root   *GridNode
	RootBV dbvt.AABB
}

// NewGrid returns an unsubdivided grid spanning rootBV.
func NewGrid(rootBV dbvt.AABB) *Grid {
	return &Grid{Root: NewGridNode(), RootBV: rootBV}
}

// Object is the capability a dbvt.Object must additionally provide for the
// grid traversals in this package to dispatch on it (§4.H "tagged-variant
// dispatch for octree queries"). Objects not implementing Object are
// ignored by Collide/Distance.
type Object interface {
	dbvt.Object
	Grid() *Grid
}

// octantBV returns the sub-box of parent covering octant i (0-7), split at
// its center on every axis; bit 0 of i selects the X half, bit 1 the Y
// half, bit 2 the Z half.
func octantBV(parent dbvt.AABB, i int) dbvt.AABB {
	c := parent.Center()
	min, max := parent.Min, parent.Max
	minX, maxX := min.X, c.X
	if i&1 != 0 {
		minX, maxX = c.X, max.X
	}
	minY, maxY := min.Y, c.Y
	if i&2 != 0 {
		minY, maxY = c.Y, max.Y
	}
	minZ, maxZ := min.Z, c.Z
	if i&4 != 0 {
		minZ, maxZ = c.Z, max.Z
	}
	return dbvt.NewAABB(
		dbvt.Vector3{X: minX, Y: minY, Z: minZ},
		dbvt.Vector3{X: maxX, Y: maxY, Z: maxZ},
	)
}

// worldBV places a grid-local box in world space under transform, taking
// the cheap axis-aligned path when the rotation is identity and an
// oriented-corner sweep otherwise (§4.G).
func worldBV(local dbvt.AABB, transform dbvt.Transform) dbvt.AABB {
	if transform.IsIdentityRotation() {
		return local.Translated(transform.Translation)
	}
	corners := [8]dbvt.Vector3{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	p0 := transform.Apply(corners[0])
	min, max := p0, p0
	for _, c := range corners[1:] {
		p := transform.Apply(c)
		min = min.Min(p)
		max = max.Max(p)
	}
	return dbvt.NewAABB(min, max)
}
