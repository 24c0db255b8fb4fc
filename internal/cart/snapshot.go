package cart

import (
	"encoding/json"
	"net/url"

	"github.com/utafrali/minicart/internal/domain"
	apperrors "github.com/utafrali/minicart/pkg/errors"
)

// SnapshotField is the form field carrying the serialized cart snapshot.
// Server-rendered fragments embed it as a hidden input; Dispatch reads it
// back out.
const SnapshotField = "storefront-cart"

// EncodeSnapshot serializes a cart into the URL-encoded JSON form value
// consumed by Dispatch.
func EncodeSnapshot(cart *domain.Cart) (string, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeSnapshot extracts and decodes the snapshot field from a parsed form.
// A missing or malformed field decodes to an empty cart and a DecodeError so
// the caller can log the recovery; the returned cart is always usable.
func DecodeSnapshot(form url.Values) (*domain.Cart, error) {
	raw := form.Get(SnapshotField)
	if raw == "" {
		return domain.EmptyCart(), nil
	}

	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return domain.EmptyCart(), apperrors.Decode("snapshot field", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(unescaped), &cart); err != nil {
		return domain.EmptyCart(), apperrors.Decode("snapshot field", err)
	}

	if cart.Items == nil {
		cart.Items = []domain.Item{}
	}
	return &cart, nil
}
