package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/minicart/internal/analytics"
	apperrors "github.com/utafrali/minicart/pkg/errors"
	"github.com/utafrali/minicart/pkg/validator"
)

// AnalyticsHandler exposes the tracking relay and the raw analytics sink
// over HTTP. Every endpoint is fire-and-forget: accepted events return 202
// regardless of what the sink does with them.
type AnalyticsHandler struct {
	relay  *analytics.Relay
	sink   analytics.Dispatcher
	logger *slog.Logger
}

// NewAnalyticsHandler creates the analytics HTTP handler.
func NewAnalyticsHandler(relay *analytics.Relay, sink analytics.Dispatcher, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		relay:  relay,
		sink:   sink,
		logger: logger,
	}
}

// DispatchEventRequest is the JSON request body for a direct analytics event.
type DispatchEventRequest struct {
	Name   string           `json:"name" validate:"required"`
	Params analytics.Params `json:"params"`
}

// DispatchEvent handles POST /analytics/events.
func (h *AnalyticsHandler) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	var req DispatchEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	h.sink.Dispatch(r.Context(), analytics.Event{Name: req.Name, Params: req.Params})
	w.WriteHeader(http.StatusAccepted)
}

// ScanMarkers handles POST /analytics/markers, registering a freshly rendered
// fragment's tracking markers with the relay.
func (h *AnalyticsHandler) ScanMarkers(w http.ResponseWriter, r *http.Request) {
	var markers []analytics.Marker
	if err := json.NewDecoder(r.Body).Decode(&markers); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	h.relay.Scan(markers)
	w.WriteHeader(http.StatusAccepted)
}

// Click handles POST /analytics/markers/{markerId}/click.
func (h *AnalyticsHandler) Click(w http.ResponseWriter, r *http.Request) {
	h.relay.Click(r.Context(), chi.URLParam(r, "markerId"))
	w.WriteHeader(http.StatusAccepted)
}

// visibilityRequest reports an intersection transition for a view marker.
type visibilityRequest struct {
	Intersecting bool `json:"intersecting"`
}

// Visible handles POST /analytics/markers/{markerId}/visible.
func (h *AnalyticsHandler) Visible(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	h.relay.Visible(r.Context(), chi.URLParam(r, "markerId"), req.Intersecting)
	w.WriteHeader(http.StatusAccepted)
}
