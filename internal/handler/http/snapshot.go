package http

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/utafrali/minicart/internal/cart"
	"github.com/utafrali/minicart/internal/domain"
	"github.com/utafrali/minicart/internal/snapshot"
	apperrors "github.com/utafrali/minicart/pkg/errors"
)

// SnapshotHandler serves the session snapshot endpoints: the hidden-input
// fragment embedded by server-rendered pages, and the dispatch endpoint that
// hydrates the store from a submitted fragment.
type SnapshotHandler struct {
	store  *cart.Store
	repo   snapshot.Repository
	logger *slog.Logger
}

// NewSnapshotHandler creates the snapshot HTTP handler.
func NewSnapshotHandler(store *cart.Store, repo snapshot.Repository, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// GetFragment handles GET /session/cart. It renders the session's persisted
// snapshot as the hidden form input a server-rendered page embeds. A session
// with no persisted snapshot gets an empty cart, never an error page.
func (h *SnapshotHandler) GetFragment(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.InvalidInput("X-Session-ID header is required"))
		return
	}

	c, err := h.repo.Get(r.Context(), sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.ErrorContext(r.Context(), "failed to load session snapshot",
				slog.String("error", err.Error()),
			)
			writeError(w, err)
			return
		}
		c = h.store.GetCart()
	}
	if c == nil {
		c = domain.EmptyCart()
	}

	encoded, err := cart.EncodeSnapshot(c)
	if err != nil {
		writeError(w, apperrors.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<input type="hidden" name="%s" value="%s">`,
		cart.SnapshotField, html.EscapeString(encoded))
}

// Dispatch handles PUT /session/cart. The submitted form's snapshot field
// replaces the store's state and is persisted for the session. A malformed
// snapshot still dispatches (falling back to an empty cart inside the store)
// and still persists, keeping the session and the store in agreement.
func (h *SnapshotHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.InvalidInput("X-Session-ID header is required"))
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, apperrors.InvalidInput("invalid form body: "+err.Error()))
		return
	}

	h.store.Dispatch(r.Form)

	if err := h.repo.Save(r.Context(), sessionID, h.store.GetCart()); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to persist session snapshot",
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /session/cart, dropping the persisted snapshot.
func (h *SnapshotHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.InvalidInput("X-Session-ID header is required"))
		return
	}

	if err := h.repo.Delete(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
