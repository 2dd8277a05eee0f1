package dbvt

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerLifecycleConvey(t *testing.T) {
	Convey("Given a fresh Manager", t, func() {
		mgr, err := NewManager()
		So(err, ShouldBeNil)
		So(mgr.Size(), ShouldEqual, 0)

		Convey("When two overlapping bodies are registered", func() {
			a := newTestBody("a", Vector3{0, 0, 0}, Vector3{2, 2, 2})
			b := newTestBody("b", Vector3{1, 1, 1}, Vector3{3, 3, 3})
			So(mgr.RegisterObject(a), ShouldBeNil)
			So(mgr.RegisterObject(b), ShouldBeNil)

			Convey("Then Size reports both", func() {
				So(mgr.Size(), ShouldEqual, 2)
			})

			Convey("Then Collide reports exactly one pair", func() {
				pairs := 0
				err := mgr.Collide(func(x, y Object, cdata any) bool {
					pairs++
					return false
				}, nil)
				So(err, ShouldBeNil)
				So(pairs, ShouldEqual, 1)
			})

			Convey("Then Distance reports zero, since they overlap", func() {
				d, err := mgr.Distance(func(x, y Object, cdata any, minDist *float64) bool {
					if dist := x.AABB().Distance(y.AABB()); dist < *minDist {
						*minDist = dist
					}
					return false
				}, nil, math.Inf(1))
				So(err, ShouldBeNil)
				So(d, ShouldEqual, 0)
			})

			Convey("And when one is unregistered", func() {
				So(mgr.UnregisterObject(a), ShouldBeNil)

				Convey("Then Size drops to one", func() {
					So(mgr.Size(), ShouldEqual, 1)
				})
			})

			Convey("And when Clear is called", func() {
				So(mgr.Clear(), ShouldBeNil)

				Convey("Then Size is zero and the tree is empty", func() {
					So(mgr.Size(), ShouldEqual, 0)
					So(mgr.tree.Empty(), ShouldBeTrue)
				})
			})
		})
	})
}
