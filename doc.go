/*
Package dbvt implements a dynamic axis-aligned bounding-box (AABB) tree for
broad-phase collision detection.

A Manager owns a self-balancing binary tree of bounding volumes (a "dynamic
bounding volume tree", DBVT) over a mutable set of caller-owned collision
objects. Objects are registered with their current AABB, moved by calling
Update after their pose changes, and queried through pairwise overlap,
pairwise nearest-distance, and single-query traversals. The tree refits
incrementally on small motions and falls back to a full top-down rebuild once
local drift passes a configurable threshold.

Narrow-phase geometry (exact shape overlap/distance) is not part of this
package: all traversals invoke caller-supplied callbacks at the leaves and
never interpret object geometry themselves.

Typical usage:

	mgr, err := dbvt.NewManager(dbvt.WithConfig(dbvt.DefaultConfig()))
	mgr.RegisterObject(obj1)
	mgr.RegisterObject(obj2)
	mgr.UpdateAll()
	mgr.Collide(func(a, b dbvt.Object, cdata any) bool {
	    // narrow phase goes here
	    return false
	}, cdata)

Package `dbvt/grid` contains the hierarchical occupancy-grid (octree)
traversal. Package `dbvt/events` contains an optional lifecycle event bus.
Package `dbvt/metrics` contains optional Prometheus instrumentation. Package
`dbvt/debug` contains diagnostic dump/report helpers.
*/
package dbvt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dbvt'.
func tracer() tracing.Trace {
	return tracing.Select("dbvt")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
