package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/minicart/internal/analytics"
	"github.com/utafrali/minicart/internal/cart"
	"github.com/utafrali/minicart/internal/snapshot"
	"github.com/utafrali/minicart/pkg/health"
	"github.com/utafrali/minicart/pkg/middleware"
)

// NewRouter creates a chi router with all minicart service routes registered.
func NewRouter(
	store *cart.Store,
	snapshots snapshot.Repository,
	relay *analytics.Relay,
	sink analytics.Dispatcher,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("minicart"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(SessionFromHeader)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	actionsHandler := NewActionsHandler(store, logger)
	snapshotHandler := NewSnapshotHandler(store, snapshots, logger)
	analyticsHandler := NewAnalyticsHandler(relay, sink, logger)

	// Cart action endpoints
	r.Route("/actions/minicart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/cart", actionsHandler.GetCart)
		r.Post("/add-to-cart", actionsHandler.AddToCart)
		r.Post("/set-quantity", actionsHandler.SetQuantity)
	})

	// Session snapshot endpoints (form-encoded, no JSON enforcement)
	r.Route("/session/cart", func(r chi.Router) {
		r.Get("/", snapshotHandler.GetFragment)
		r.Put("/", snapshotHandler.Dispatch)
		r.Delete("/", snapshotHandler.Clear)
	})

	// Analytics relay endpoints
	r.Route("/analytics", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/events", analyticsHandler.DispatchEvent)
		r.Post("/markers", analyticsHandler.ScanMarkers)
		r.Post("/markers/{markerId}/click", analyticsHandler.Click)
		r.Post("/markers/{markerId}/visible", analyticsHandler.Visible)
	})

	return r
}
