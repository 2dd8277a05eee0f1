package dbvt

// testBody is a minimal Object used throughout the package's tests: a
// convex primitive at a fixed pose with a caller-assigned name for
// diagnostics.
type testBody struct {
	name string
	bv   AABB
}

func newTestBody(name string, min, max Vector3) *testBody {
	return &testBody{name: name, bv: NewAABB(min, max)}
}

func (b *testBody) AABB() AABB                { return b.bv }
func (b *testBody) Transform() Transform      { return IdentityTransform() }
func (b *testBody) GeometryKind() GeometryKind { return KindConvex }
