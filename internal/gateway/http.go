package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/minicart/internal/domain"
	apperrors "github.com/utafrali/minicart/pkg/errors"
)

// Action endpoint paths served by the minicart actions service.
const (
	addToCartPath   = "/actions/minicart/add-to-cart"
	setQuantityPath = "/actions/minicart/set-quantity"
)

// HTTPDoer is the subset of pkg/httpclient used by the HTTP gateway. Both
// the plain retrying client and the circuit-breaker client satisfy it.
type HTTPDoer interface {
	Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error)
}

// HTTPGateway calls the minicart action endpoints over HTTP.
type HTTPGateway struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewHTTPGateway creates a gateway that posts JSON action requests to baseURL.
func NewHTTPGateway(client HTTPDoer, baseURL string, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// AddItem posts an add-to-cart action and decodes the resulting item.
func (g *HTTPGateway) AddItem(ctx context.Context, req AddItemRequest) (*domain.Item, error) {
	return g.post(ctx, "add to cart", addToCartPath, req)
}

// UpdateQuantity posts a set-quantity action and decodes the resulting item.
func (g *HTTPGateway) UpdateQuantity(ctx context.Context, req UpdateQuantityRequest) (*domain.Item, error) {
	return g.post(ctx, "set quantity", setQuantityPath, req)
}

func (g *HTTPGateway) post(ctx context.Context, action, path string, payload any) (*domain.Item, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", action, err)
	}

	resp, err := g.client.Post(ctx, g.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Gateway(fmt.Sprintf("%s: %v", action, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := g.failureReason(resp)
		g.logger.WarnContext(ctx, "gateway call failed",
			slog.String("action", action),
			slog.Int("status", resp.StatusCode),
			slog.String("reason", reason),
		)
		return nil, apperrors.Gateway(fmt.Sprintf("failed to %s: %s", action, reason))
	}

	var item domain.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, apperrors.Decode(action+" response", err)
	}

	return &item, nil
}

// failureReason pulls a human-readable reason out of a non-2xx response,
// preferring the structured error envelope over the raw status line.
func (g *HTTPGateway) failureReason(resp *http.Response) string {
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(bodyBytes) == 0 {
		return resp.Status
	}

	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(bodyBytes, &envelope) == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	return resp.Status
}
