package dbvt

import "github.com/dolthub/maphash"

// objectTable maps a registered Object to its leaf handle (§4.C). Pointer
// identity is the real lookup key; the maphash.Hasher is only used to
// derive a compact diagnostic hash of an object's identity for trace lines.
// The hasher is seeded when the table is created and hashes the object's
// identity, so the value is fixed for the life of the table but differs
// between runs.
type objectTable struct {
	handles map[Object]NodeHandle
	hasher  maphash.Hasher[Object]
}

func newObjectTable() *objectTable {
	return &objectTable{
		handles: make(map[Object]NodeHandle),
		hasher:  maphash.NewHasher[Object](),
	}
}

func (t *objectTable) lookup(o Object) (NodeHandle, bool) {
	h, ok := t.handles[o]
	return h, ok
}

func (t *objectTable) insert(o Object, h NodeHandle) {
	t.handles[o] = h
}

func (t *objectTable) remove(o Object) {
	delete(t.handles, o)
}

func (t *objectTable) len() int {
	return len(t.handles)
}

// diagnosticHash returns a hash of o's identity for log lines, stable for
// the life of this table.
func (t *objectTable) diagnosticHash(o Object) uint64 {
	return t.hasher.Hash(o)
}
