package shopify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/minicart/internal/gateway"
	apperrors "github.com/utafrali/minicart/pkg/errors"
	"github.com/utafrali/minicart/pkg/httpclient"
)

func testAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httpclient.New(httpclient.Config{MaxRetries: 0})
	return New(client, srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddItemSendsMerchandiseLines(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"item_id": "line-1", "item_name": "Blue Shirt", "price": 99.9, "quantity": 2}`))
	})

	item, err := adapter.AddItem(context.Background(), gateway.AddItemRequest{
		ProductID: "gid://shopify/ProductVariant/123",
		Quantity:  2,
		Attributes: []gateway.Attribute{
			{Name: "engraving", Value: "ABC"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/actions/cart/add-items", gotPath)
	assert.Equal(t, "line-1", item.ItemID)
	assert.Equal(t, 2, item.Quantity)

	lines := gotBody["lines"].([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "gid://shopify/ProductVariant/123", line["merchandiseId"])
	assert.Equal(t, float64(2), line["quantity"])
	attrs := line["attributes"].([]any)
	require.Len(t, attrs, 1)
	assert.Equal(t, "engraving", attrs[0].(map[string]any)["key"])
}

func TestUpdateQuantitySendsLineID(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"item_id": "line-1", "quantity": 5}`))
	})

	item, err := adapter.UpdateQuantity(context.Background(), gateway.UpdateQuantityRequest{ItemID: "line-1", Quantity: 5})
	require.NoError(t, err)

	assert.Equal(t, "/actions/cart/update-items", gotPath)
	assert.Equal(t, 5, item.Quantity)

	lines := gotBody["lines"].([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "line-1", line["id"])
	assert.Equal(t, float64(5), line["quantity"])
}

func TestUpdateQuantityZeroSynthesizesRemovedLine(t *testing.T) {
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	item, err := adapter.UpdateQuantity(context.Background(), gateway.UpdateQuantityRequest{ItemID: "line-1", Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, "line-1", item.ItemID)
	assert.Equal(t, 0, item.Quantity)
}

func TestAddItemStructuredErrorIsMapped(t *testing.T) {
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": "INVALID_INPUT", "message": "variant out of stock"}}`))
	})

	_, err := adapter.AddItem(context.Background(), gateway.AddItemRequest{ProductID: "v1", Quantity: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "variant out of stock")
}

func TestAddItemUnstructuredFailureIsGatewayError(t *testing.T) {
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := adapter.AddItem(context.Background(), gateway.AddItemRequest{ProductID: "v1", Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrGateway)
}

func TestAddItemMalformedSuccessBodyIsDecodeError(t *testing.T) {
	adapter := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not-json`))
	})

	_, err := adapter.AddItem(context.Background(), gateway.AddItemRequest{ProductID: "v1", Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrDecode)
}
