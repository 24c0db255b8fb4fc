package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/utafrali/minicart/pkg/errors"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_StructuredBody(t *testing.T) {
	resp := fakeResponse(http.StatusBadRequest, `{"error":{"code":"INVALID_INPUT","message":"quantity must not be negative"}}`)

	err := ParseResponseError(resp, "minicart-actions")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "quantity must not be negative")
}

func TestParseResponseError_NotImplemented(t *testing.T) {
	resp := fakeResponse(http.StatusNotImplemented, `{"error":{"code":"UNSUPPORTED_PLATFORM","message":"no add to cart action for platform"}}`)

	err := ParseResponseError(resp, "minicart-actions")

	assert.ErrorIs(t, err, apperrors.ErrUnsupportedPlatform)
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := fakeResponse(http.StatusServiceUnavailable, "upstream unavailable")

	err := ParseResponseError(resp, "shopify")

	assert.ErrorIs(t, err, apperrors.ErrGateway)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestParseResponseError_EmptyBody(t *testing.T) {
	resp := fakeResponse(http.StatusBadGateway, "")

	err := ParseResponseError(resp, "shopify")

	assert.ErrorIs(t, err, apperrors.ErrGateway)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusNotFound))
	assert.False(t, IsClientError(http.StatusOK))
	assert.False(t, IsClientError(http.StatusInternalServerError))
}
