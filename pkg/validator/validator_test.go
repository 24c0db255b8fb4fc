package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addToCartPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=100"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(addToCartPayload{ProductID: "p1", Quantity: 2})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(addToCartPayload{Quantity: 2})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "ProductID")
	assert.Equal(t, "is required", valErr.Fields()["ProductID"])
}

func TestValidate_RangeViolation(t *testing.T) {
	err := Validate(addToCartPayload{ProductID: "p1", Quantity: 500})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "Quantity")
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"product_id":"p1","quantity":3}`))

	var payload addToCartPayload
	require.NoError(t, DecodeAndValidate(req, &payload))
	assert.Equal(t, "p1", payload.ProductID)
	assert.Equal(t, 3, payload.Quantity)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{`))

	var payload addToCartPayload
	assert.Error(t, DecodeAndValidate(req, &payload))
}
