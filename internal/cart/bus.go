package cart

import "sync"

// EventKind names a cart lifecycle event.
type EventKind string

// Cart lifecycle events. Events carry no payload: subscribers read the new
// state back through the store, which keeps every consumer on the single
// source of truth instead of a possibly stale event payload.
const (
	EventCart        EventKind = "cart"
	EventItemAdded   EventKind = "item-added"
	EventItemUpdated EventKind = "item-updated"
)

// Kinds returns all cart lifecycle event kinds.
func Kinds() []EventKind {
	return []EventKind{EventCart, EventItemAdded, EventItemUpdated}
}

type listener struct {
	fn      func()
	once    bool
	removed bool
}

// Bus is the shared broadcast point for cart lifecycle events. Listeners for
// the same kind fire in registration order.
type Bus struct {
	mu        sync.Mutex
	listeners map[EventKind][]*listener
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[EventKind][]*listener),
	}
}

// attach registers fn against kind and returns a handle used for detaching.
func (b *Bus) attach(kind EventKind, fn func(), once bool) *listener {
	l := &listener{fn: fn, once: once}
	b.mu.Lock()
	b.listeners[kind] = append(b.listeners[kind], l)
	b.mu.Unlock()
	return l
}

// detach removes the listener from kind. Safe to call more than once.
func (b *Bus) detach(kind EventKind, l *listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l.removed = true
	active := b.listeners[kind][:0]
	for _, cur := range b.listeners[kind] {
		if cur != l {
			active = append(active, cur)
		}
	}
	b.listeners[kind] = active
}

// Emit fires all listeners registered for kind, in FIFO order. Callbacks run
// outside the bus lock so they are free to re-enter the store or the bus.
func (b *Bus) Emit(kind EventKind) {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.listeners[kind]))
	remaining := b.listeners[kind][:0]
	for _, l := range b.listeners[kind] {
		if l.removed {
			continue
		}
		fns = append(fns, l.fn)
		if l.once {
			l.removed = true
			continue
		}
		remaining = append(remaining, l)
	}
	b.listeners[kind] = remaining
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
