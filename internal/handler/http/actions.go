package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/utafrali/minicart/internal/cart"
	"github.com/utafrali/minicart/internal/gateway"
	apperrors "github.com/utafrali/minicart/pkg/errors"
	"github.com/utafrali/minicart/pkg/validator"
)

// ActionsHandler serves the minicart action endpoints that UI fragments call
// on user interaction.
type ActionsHandler struct {
	store  *cart.Store
	logger *slog.Logger
}

// NewActionsHandler creates the cart actions HTTP handler.
func NewActionsHandler(store *cart.Store, logger *slog.Logger) *ActionsHandler {
	return &ActionsHandler{
		store:  store,
		logger: logger,
	}
}

// --- Request DTOs ---

// AddToCartRequest is the JSON request body for the add-to-cart action.
type AddToCartRequest struct {
	ProductID      string      `json:"productId" validate:"required"`
	ProductGroupID string      `json:"productGroupId"`
	Quantity       int         `json:"quantity" validate:"required,gte=1"`
	Attributes     []Attribute `json:"attributes" validate:"dive"`
}

// Attribute is an opaque platform-specific add-to-cart property.
type Attribute struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// SetQuantityRequest is the JSON request body for the set-quantity action.
type SetQuantityRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// --- Handlers ---

// AddToCart handles POST /actions/minicart/add-to-cart.
// Success returns the resulting item as a bare JSON body; a session without
// a dispatched cart returns 204 and performs nothing.
func (h *ActionsHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	addReq := gateway.AddItemRequest{
		ProductID:      req.ProductID,
		ProductGroupID: req.ProductGroupID,
		Quantity:       req.Quantity,
	}
	for _, attr := range req.Attributes {
		addReq.Attributes = append(addReq.Attributes, gateway.Attribute{Name: attr.Name, Value: attr.Value})
	}

	item, err := h.store.AddToCart(r.Context(), addReq)
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// SetQuantity handles POST /actions/minicart/set-quantity.
func (h *ActionsHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	item, err := h.store.SetQuantity(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// GetCart handles GET /actions/minicart/cart, returning the current snapshot
// with its pending mutation count so clients can render disabled states.
func (h *ActionsHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cart":    h.store.GetCart(),
		"pending": h.store.Pending(),
	})
}

func (h *ActionsHandler) writeActionError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.HTTPStatus(err) == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "cart action failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	writeError(w, err)
}

// --- Shared helpers ---

type errorEnvelope struct {
	Error *errorResponse `json:"error"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, errorEnvelope{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	writeJSON(w, apperrors.HTTPStatus(err), errorEnvelope{
		Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}
	writeError(w, apperrors.InvalidInput(err.Error()))
}
