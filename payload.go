package dbvt

// GeometryKind discriminates the narrow-phase shape carried by an Object,
// used only to decide how a query argument should be traversed (§4.H): as
// an opaque leaf (4.F) or as a hierarchical occupancy grid (4.G). The tree
// itself never interprets geometry beyond this tag.
type GeometryKind int

const (
	// KindConvex is a generic convex primitive (sphere, box, capsule, ...).
	KindConvex GeometryKind = iota
	// KindMesh is a triangle mesh or other non-convex surface.
	KindMesh
	// KindHeightField is a regular height-field surface.
	KindHeightField
	// KindOctree marks an object whose geometry is itself a hierarchical
	// occupancy grid (dbvt/grid.Grid), dispatched per §4.G.
	KindOctree
)

func (k GeometryKind) String() string {
	switch k {
	case KindConvex:
		return "convex"
	case KindMesh:
		return "mesh"
	case KindHeightField:
		return "height_field"
	case KindOctree:
		return "octree"
	default:
		return "unknown"
	}
}

// Object is the leaf payload contract (§4.H, §6 "Leaf payload"). It is
// opaque to the tree: only AABB() is read by the tree itself; Transform and
// GeometryKind exist so that Manager.Collide/Distance can decide how to
// dispatch a query (§4.D) without the tree knowing anything about geometry.
//
// Implementations are caller-owned; the Manager never constructs or
// destroys an Object.
type Object interface {
	// AABB returns the object's current, un-fattened world-space bounding
	// box.
	AABB() AABB
	// Transform returns the object's current pose.
	Transform() Transform
	// GeometryKind reports which traversal family a query built from this
	// object should use.
	GeometryKind() GeometryKind
}

// OverlapCallback is invoked once per candidate overlapping pair (or once
// per leaf overlapping a query). Returning true stops the traversal
// immediately (§6, §5 "Cancellation").
type OverlapCallback func(a, b Object, cdata any) bool

// DistanceCallback is invoked once per candidate pair (or once per leaf)
// during a distance traversal. minDist is the current best distance found
// so far; the callback may shrink it by writing through the pointer to
// tighten pruning for the remainder of the traversal. Returning true stops
// the traversal immediately.
type DistanceCallback func(a, b Object, cdata any, minDist *float64) bool
