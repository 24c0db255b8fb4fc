// Package analytics carries storefront analytics events from their producers
// (the cart store, DOM trackers) to a process-wide sink. Producers never
// consume this channel.
package analytics

import (
	"context"
	"sync"

	"github.com/utafrali/minicart/internal/domain"
)

// Canonical event names emitted by cart mutations.
const (
	EventAddToCart      = "add_to_cart"
	EventRemoveFromCart = "remove_from_cart"
)

// Params is the payload attached to an analytics event.
type Params struct {
	Items []domain.Item `json:"items"`
}

// Event is a named analytics event with its item payload.
type Event struct {
	Name   string `json:"name"`
	Params Params `json:"params"`
}

// Dispatcher accepts analytics events. Implementations must be best-effort:
// a failing sink must never propagate an error into the page flow.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// MemoryDispatcher buffers events in memory. Used in tests and as a sink for
// environments without a broker.
type MemoryDispatcher struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryDispatcher creates an empty in-memory dispatcher.
func NewMemoryDispatcher() *MemoryDispatcher {
	return &MemoryDispatcher{}
}

// Dispatch records the event.
func (d *MemoryDispatcher) Dispatch(_ context.Context, event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

// Events returns a copy of everything dispatched so far.
func (d *MemoryDispatcher) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}
