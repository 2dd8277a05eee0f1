package dbvt

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestArenaAllocateGrows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	a := newArena()
	h1 := a.allocate()
	h2 := a.allocate()
	if h1 == h2 {
		t.Errorf("expected distinct handles, got %d and %d", h1, h2)
	}
	if a.cap() != 2 {
		t.Errorf("expected cap 2, got %d", a.cap())
	}
}

func TestArenaFreeRecycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	a := newArena()
	h1 := a.allocate()
	a.allocate()
	a.free(h1)
	h3 := a.allocate()
	if h3 != h1 {
		t.Errorf("expected free() to recycle handle %d, got %d", h1, h3)
	}
	if a.cap() != 2 {
		t.Errorf("expected cap to stay at 2 after recycling, got %d", a.cap())
	}
}

func TestArenaResetShrinks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dbvt")
	defer teardown()

	a := newArena()
	a.allocate()
	a.allocate()
	a.reset()
	if a.cap() != 0 {
		t.Errorf("expected cap 0 after reset, got %d", a.cap())
	}
	h := a.allocate()
	if h != 0 {
		t.Errorf("expected handle 0 after reset, got %d", h)
	}
}
