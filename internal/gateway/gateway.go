// Package gateway defines the remote boundary the cart store mutates through.
// The store only cares about "success with an item payload" or "failure with
// a reason"; which commerce platform answers on the other side is invisible
// here.
package gateway

import (
	"context"

	"github.com/utafrali/minicart/internal/domain"
)

// Attribute is an opaque name/value pair forwarded to the platform.
// Only required on some integrations (VNDA, Nuvemshop).
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AddItemRequest is the payload for adding a new line to the cart.
type AddItemRequest struct {
	ProductID      string      `json:"product_id"`
	ProductGroupID string      `json:"product_group_id"`
	Quantity       int         `json:"quantity"`
	Attributes     []Attribute `json:"attributes,omitempty"`
}

// UpdateQuantityRequest is the payload for changing an existing line's
// quantity. Quantity 0 means "remove this item".
type UpdateQuantityRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Gateway performs the remote cart mutations. Implementations must not
// partially apply: either the returned item reflects the committed state or
// an error is returned and nothing changed.
type Gateway interface {
	AddItem(ctx context.Context, req AddItemRequest) (*domain.Item, error)
	UpdateQuantity(ctx context.Context, req UpdateQuantityRequest) (*domain.Item, error)
}
