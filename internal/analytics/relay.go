package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sync"
)

// Trigger modes for tracked markers. View is the default when a marker names
// no trigger.
const (
	TriggerClick = "click"
	TriggerView  = "view"
)

// Marker is a declarative intent-to-track descriptor lifted off a rendered
// element: a stable element ID, the URL-encoded JSON event payload, and the
// trigger mode deciding when the payload fires.
type Marker struct {
	ID         string `json:"id"`
	Descriptor string `json:"event"`
	Trigger    string `json:"trigger,omitempty"`
}

// VisibilityObserver is the runtime hook for view-triggered markers. Observe
// asks the runtime to report intersection transitions for the element back
// through Relay.Visible; Unobserve stops them.
type VisibilityObserver interface {
	Observe(id string)
	Unobserve(id string)
}

// PassiveObserver is a VisibilityObserver for runtimes where intersection
// transitions are reported externally (the rendering client posts them back).
// Observing is implicit there, so both operations are no-ops.
type PassiveObserver struct{}

func (PassiveObserver) Observe(string)   {}
func (PassiveObserver) Unobserve(string) {}

// view-marker states. Fired is terminal: the marker never dispatches again,
// no matter how many rescans or intersection transitions follow.
const (
	viewObserving = iota + 1
	viewFired
)

// Relay routes tracked-marker activity to the analytics sink. Click markers
// fire on every click; view markers fire exactly once, on first visibility.
// When no visibility observer is available, view markers are silently never
// tracked.
type Relay struct {
	mu        sync.Mutex
	clickable map[string]string
	viewState map[string]int
	viewDesc  map[string]string

	sink     Dispatcher
	observer VisibilityObserver
	logger   *slog.Logger
}

// NewRelay creates a relay forwarding to sink. observer may be nil.
func NewRelay(sink Dispatcher, observer VisibilityObserver, logger *slog.Logger) *Relay {
	return &Relay{
		clickable: make(map[string]string),
		viewState: make(map[string]int),
		viewDesc:  make(map[string]string),
		sink:      sink,
		observer:  observer,
		logger:    logger,
	}
}

// Scan registers a batch of markers. Safe to call repeatedly with overlapping
// batches: fragment swaps re-deliver markers that were already seen, and
// re-scanning must not rearm a fired view marker or double-observe one still
// waiting.
func (r *Relay) Scan(markers []Marker) {
	for _, m := range markers {
		switch m.Trigger {
		case TriggerClick:
			r.mu.Lock()
			r.clickable[m.ID] = m.Descriptor
			r.mu.Unlock()
		default:
			if r.observer == nil {
				continue
			}
			r.mu.Lock()
			if r.viewState[m.ID] != 0 {
				r.mu.Unlock()
				continue
			}
			r.viewState[m.ID] = viewObserving
			r.viewDesc[m.ID] = m.Descriptor
			r.mu.Unlock()
			r.observer.Observe(m.ID)
		}
	}
}

// Click fires the click-triggered marker registered under id. Repeated clicks
// repeatedly fire. Unknown IDs and malformed descriptors are ignored:
// tracking must never break the interaction it decorates.
func (r *Relay) Click(ctx context.Context, id string) {
	r.mu.Lock()
	descriptor, ok := r.clickable[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	r.forward(ctx, id, descriptor)
}

// Visible reports an intersection transition for a view-triggered marker.
// The first intersecting transition fires the event and retires the marker.
func (r *Relay) Visible(ctx context.Context, id string, intersecting bool) {
	if !intersecting {
		return
	}

	r.mu.Lock()
	if r.viewState[id] != viewObserving {
		r.mu.Unlock()
		return
	}
	r.viewState[id] = viewFired
	descriptor := r.viewDesc[id]
	delete(r.viewDesc, id)
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.Unobserve(id)
	}
	r.forward(ctx, id, descriptor)
}

// forward decodes the URL-encoded JSON descriptor and pushes the event to
// the sink. Decode failures are logged at debug and swallowed.
func (r *Relay) forward(ctx context.Context, id, descriptor string) {
	unescaped, err := url.QueryUnescape(descriptor)
	if err != nil {
		r.logger.Debug("skipping malformed tracking descriptor",
			slog.String("marker_id", id),
			slog.String("error", err.Error()),
		)
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(unescaped), &event); err != nil {
		r.logger.Debug("skipping malformed tracking descriptor",
			slog.String("marker_id", id),
			slog.String("error", err.Error()),
		)
		return
	}

	r.sink.Dispatch(ctx, event)
}
