package dbvt

import "math"

// Vector3 is a point or direction in ℝ³.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v+w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Min returns the component-wise minimum of v and w.
func (v Vector3) Min(w Vector3) Vector3 {
	return Vector3{math.Min(v.X, w.X), math.Min(v.Y, w.Y), math.Min(v.Z, w.Z)}
}

// Max returns the component-wise maximum of v and w.
func (v Vector3) Max(w Vector3) Vector3 {
	return Vector3{math.Max(v.X, w.X), math.Max(v.Y, w.Y), math.Max(v.Z, w.Z)}
}

// Component returns the i-th axis component (0=X, 1=Y, 2=Z).
func (v Vector3) Component(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Dot returns the dot product of v and w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Length returns the Euclidean norm of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Transform is an affine pose: rotation (as a 3x3 matrix, row-major) plus
// translation. The zero value has an all-zero rotation matrix, not the
// identity; use IdentityTransform for the identity pose.
type Transform struct {
	Rotation    [3][3]float64
	Translation Vector3
}

// IdentityTransform returns the identity pose.
func IdentityTransform() Transform {
	return Transform{
		Rotation: [3][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
}

// IsIdentityRotation reports whether t's rotation part is (bit-identical to)
// the identity matrix. Traversals use this to choose the cheaper
// axis-aligned path over the oriented-box path (§4.G).
func (t Transform) IsIdentityRotation() bool {
	id := IdentityTransform()
	return t.Rotation == id.Rotation
}

// Apply transforms a point by t: rotate then translate.
func (t Transform) Apply(p Vector3) Vector3 {
	r := t.Rotation
	return Vector3{
		X: r[0][0]*p.X + r[0][1]*p.Y + r[0][2]*p.Z,
		Y: r[1][0]*p.X + r[1][1]*p.Y + r[1][2]*p.Z,
		Z: r[2][0]*p.X + r[2][1]*p.Y + r[2][2]*p.Z,
	}.Add(t.Translation)
}
