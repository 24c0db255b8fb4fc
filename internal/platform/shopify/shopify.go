// Package shopify adapts generic cart actions to the Shopify cart-lines API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/minicart/internal/domain"
	"github.com/utafrali/minicart/internal/gateway"
	apperrors "github.com/utafrali/minicart/pkg/errors"
	"github.com/utafrali/minicart/pkg/httpclient"
)

// Cart-lines action endpoints exposed by the Shopify app backend.
const (
	addItemsPath    = "/actions/cart/add-items"
	updateItemsPath = "/actions/cart/update-items"
)

// HTTPDoer is the subset of pkg/httpclient used by the adapter.
type HTTPDoer interface {
	Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error)
}

// Adapter translates generic add/update requests into Shopify cart-lines
// calls. It implements gateway.Gateway.
type Adapter struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// New creates a Shopify adapter posting to the app backend at baseURL.
func New(client HTTPDoer, baseURL string, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// addLine is a single line in a Shopify add-items mutation. The merchandise
// ID is the variant being added; attributes carry buyer-visible line
// customizations.
type addLine struct {
	MerchandiseID string          `json:"merchandiseId"`
	Quantity      int             `json:"quantity"`
	Attributes    []lineAttribute `json:"attributes,omitempty"`
}

// updateLine is a single line in a Shopify update-items mutation, addressed
// by the existing line ID. Quantity 0 removes the line.
type updateLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type lineAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AddItem adds a variant to the Shopify cart.
func (a *Adapter) AddItem(ctx context.Context, req gateway.AddItemRequest) (*domain.Item, error) {
	line := addLine{
		MerchandiseID: req.ProductID,
		Quantity:      req.Quantity,
	}
	for _, attr := range req.Attributes {
		line.Attributes = append(line.Attributes, lineAttribute{Key: attr.Name, Value: attr.Value})
	}

	payload := struct {
		Lines []addLine `json:"lines"`
	}{Lines: []addLine{line}}

	return a.post(ctx, "add items", addItemsPath, payload)
}

// UpdateQuantity changes the quantity of an existing Shopify cart line.
func (a *Adapter) UpdateQuantity(ctx context.Context, req gateway.UpdateQuantityRequest) (*domain.Item, error) {
	payload := struct {
		Lines []updateLine `json:"lines"`
	}{Lines: []updateLine{{ID: req.ItemID, Quantity: req.Quantity}}}

	item, err := a.post(ctx, "update items", updateItemsPath, payload)
	if err != nil {
		return nil, err
	}

	// A removal leaves no line to echo back; synthesize a zero-quantity
	// item so the caller still learns which line was affected.
	if req.Quantity == 0 && item.ItemID == "" {
		return &domain.Item{ItemID: req.ItemID, Quantity: 0}, nil
	}
	return item, nil
}

func (a *Adapter) post(ctx context.Context, action, path string, payload any) (*domain.Item, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal shopify %s request: %w", action, err)
	}

	resp, err := a.client.Post(ctx, a.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Gateway(fmt.Sprintf("shopify %s: %v", action, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := httpclient.ParseResponseError(resp, "shopify")
		a.logger.WarnContext(ctx, "shopify call failed",
			slog.String("action", action),
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var item domain.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, apperrors.Decode("shopify "+action+" response", err)
	}
	return &item, nil
}
