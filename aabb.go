package dbvt

import "math"

// AABB is an axis-aligned bounding box in ℝ³, given by its minimum and
// maximum corners. The zero value is a degenerate box at the origin.
type AABB struct {
	Min, Max Vector3
}

// NewAABB returns the AABB spanning min and max, normalizing component order
// if the caller passed them reversed on some axis.
func NewAABB(min, max Vector3) AABB {
	return AABB{Min: min.Min(max), Max: min.Max(max)}
}

// Overlap reports whether a and b share any point.
func (a AABB) Overlap(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Distance returns the distance between a and b, 0 when they overlap.
func (a AABB) Distance(b AABB) float64 {
	dx := axisGap(a.Min.X, a.Max.X, b.Min.X, b.Max.X)
	dy := axisGap(a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y)
	dz := axisGap(a.Min.Z, a.Max.Z, b.Min.Z, b.Max.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// axisGap returns the 1-D gap between intervals [amin,amax] and [bmin,bmax],
// 0 when they overlap on this axis.
func axisGap(amin, amax, bmin, bmax float64) float64 {
	if amax < bmin {
		return bmin - amax
	}
	if bmax < amin {
		return amin - bmax
	}
	return 0
}

// Contains reports whether a fully contains b.
func (a AABB) Contains(b AABB) bool {
	return a.Min.X <= b.Min.X && a.Max.X >= b.Max.X &&
		a.Min.Y <= b.Min.Y && a.Max.Y >= b.Max.Y &&
		a.Min.Z <= b.Min.Z && a.Max.Z >= b.Max.Z
}

// Size returns a monotone volume proxy for a: its surface area. Any
// consistent monotone proxy satisfies the SAH-like cost rule in §4.B; this
// package uses surface area throughout so that costs compare directly.
func (a AABB) Size() float64 {
	d := a.Max.Sub(a.Min)
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// Volume returns the Euclidean volume of a (0 if degenerate).
func (a AABB) Volume() float64 {
	d := a.Max.Sub(a.Min)
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return d.X * d.Y * d.Z
}

// Merged returns the smallest AABB containing both a and b.
func Merged(a, b AABB) AABB {
	return AABB{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// Merge returns the smallest AABB containing both a and b.
func (a AABB) Merge(b AABB) AABB {
	return Merged(a, b)
}

// Translated returns a shifted by v.
func (a AABB) Translated(v Vector3) AABB {
	return AABB{Min: a.Min.Add(v), Max: a.Max.Add(v)}
}

// Center returns the midpoint of a.
func (a AABB) Center() Vector3 {
	return a.Min.Add(a.Max).Scale(0.5)
}

// Fattened returns a grown by margin on every axis. Leaf AABBs are stored
// fattened so that small pose changes do not force a reinsertion (§4.B
// "leaf fattening").
func (a AABB) Fattened(margin float64) AABB {
	m := Vector3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// DefaultFatMargin is the default leaf-fattening margin applied by Tree.Insert
// and Tree.Update.
const DefaultFatMargin = 0.1
