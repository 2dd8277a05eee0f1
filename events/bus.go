// Package events provides an optional, non-blocking lifecycle event
// broadcast for a dbvt.Manager (§13), wrapping github.com/guiguan/caster so
// that any number of subscribers can observe registrations, removals,
// updates, and clears without the manager itself blocking on them.
package events

import (
	"context"

	"dbvt"

	"github.com/guiguan/caster"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dbvt")
}

// Kind discriminates the lifecycle events a Bus carries.
type Kind int

const (
	// Registered fires after an object is inserted into the tree.
	Registered Kind = iota
	// Unregistered fires after an object is removed from the tree.
	Unregistered
	// Updated fires after an object's leaf bv is re-synchronized.
	Updated
	// Cleared fires after the manager is emptied.
	Cleared
)

func (k Kind) String() string {
	switch k {
	case Registered:
		return "registered"
	case Unregistered:
		return "unregistered"
	case Updated:
		return "updated"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is a single lifecycle notification. Object is nil for a Cleared
// event, since no single object is implicated.
type Event struct {
	Kind   Kind
	Object dbvt.Object
}

// Bus is a caster-backed fan-out of Events. The zero value is not usable;
// build one with NewBus.
type Bus struct {
	ctx    context.Context
	cancel context.CancelFunc
	c      *caster.Caster
}

// NewBus starts a new event bus. Call Close when done to release the
// underlying caster goroutine.
func NewBus() *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{ctx: ctx, cancel: cancel, c: caster.New(ctx)}
}

// Close stops the bus and unblocks any pending subscribers.
func (b *Bus) Close() {
	b.cancel()
}

// Publish broadcasts an Event of the given kind ("registered",
// "unregistered", "updated" or "cleared") for obj to every current
// subscriber. It never blocks: a
// slow or absent subscriber cannot stall the manager mutation that
// produced the event. obj is nil for a "cleared" kind.
func (b *Bus) Publish(kind string, obj dbvt.Object) {
	k := parseKind(kind)
	b.c.Pub(Event{Kind: k, Object: obj})
	tracer().Debugf("dbvt/events: published %s", k)
}

// Subscribe returns a channel of future events and an unsubscribe func.
// bufSize bounds how many events may queue for this subscriber before
// caster starts dropping the oldest ones.
func (b *Bus) Subscribe(bufSize int) (<-chan Event, func()) {
	raw, unsub := b.c.Sub(b.ctx, bufSize)
	out := make(chan Event)
	go func() {
		defer close(out)
		for v := range raw {
			if ev, ok := v.(Event); ok {
				out <- ev
			}
		}
	}()
	return out, unsub
}

func parseKind(kind string) Kind {
	switch kind {
	case "registered":
		return Registered
	case "unregistered":
		return Unregistered
	case "updated":
		return Updated
	case "cleared":
		return Cleared
	default:
		return Registered
	}
}
