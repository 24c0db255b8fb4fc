package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayError(t *testing.T) {
	err := Gateway("failed to set quantity: 503 Service Unavailable")

	assert.ErrorIs(t, err, ErrGateway)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Contains(t, err.Error(), "failed to set quantity")
}

func TestDecodeError_WrapsCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Decode("snapshot field", cause)

	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestUnsupportedPlatform(t *testing.T) {
	err := UnsupportedPlatform("add to cart", "vtex")

	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Equal(t, http.StatusNotImplemented, err.Status)
	assert.Contains(t, err.Message, "vtex")
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("snapshot", "sess-1")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("quantity must not be negative")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Gateway("boom")))
	assert.Equal(t, http.StatusNotImplemented, HTTPStatus(UnsupportedPlatform("set quantity", "linx")))
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("update quantity: %w", ErrGateway)
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func TestHTTPStatus_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "load snapshot")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "load snapshot")
}
