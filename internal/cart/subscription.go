package cart

// Callback is invoked with the store handle whenever a subscribed event
// fires. Callbacks must treat the snapshot returned by the store as a
// read-only view and copy anything they keep past the invocation.
type Callback func(s *Store)

// Selector picks which event kinds a subscription covers.
type Selector []EventKind

// On builds a selector for the given kinds.
func On(kinds ...EventKind) Selector {
	return Selector(kinds)
}

// All selects every cart lifecycle event.
func All() Selector {
	return Selector(Kinds())
}

// SubscribeOption configures listener semantics.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	once bool
}

// Once makes the subscription fire at most once per selected kind, then
// detach itself. The immediate replay at subscribe time does not count.
func Once() SubscribeOption {
	return func(o *subscribeOptions) { o.once = true }
}

// Subscription is a disposable handle to a set of registered listeners.
// Owners must call Cancel when the UI fragment driving the callback is torn
// down.
type Subscription struct {
	bus     *Bus
	entries []subscriptionEntry
}

type subscriptionEntry struct {
	kind EventKind
	l    *listener
}

// Cancel detaches every listener held by the subscription. Safe to call
// multiple times.
func (s *Subscription) Cancel() {
	for _, e := range s.entries {
		s.bus.detach(e.kind, e.l)
	}
	s.entries = nil
}

// Subscribe registers fn against every kind in the selector and returns a
// disposable handle. The callback is additionally invoked once, synchronously,
// before Subscribe returns, so a new subscriber always observes present state
// even if no event ever fires afterward.
func (s *Store) Subscribe(selector Selector, fn Callback, opts ...SubscribeOption) *Subscription {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}

	sub := &Subscription{bus: s.bus}
	for _, kind := range selector {
		l := s.bus.attach(kind, func() { fn(s) }, o.once)
		sub.entries = append(sub.entries, subscriptionEntry{kind: kind, l: l})
	}

	// Replay current state to the new subscriber.
	fn(s)

	return sub
}
