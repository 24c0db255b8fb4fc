package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/minicart/internal/cart"
	"github.com/utafrali/minicart/internal/domain"
	apperrors "github.com/utafrali/minicart/pkg/errors"
)

// memoryRepository is an in-memory snapshot.Repository for handler tests.
type memoryRepository struct {
	snapshots map[string]*domain.Cart
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{snapshots: make(map[string]*domain.Cart)}
}

func (r *memoryRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	c, ok := r.snapshots[sessionID]
	if !ok {
		return nil, apperrors.NotFound("snapshot", sessionID)
	}
	return c, nil
}

func (r *memoryRepository) Save(_ context.Context, sessionID string, c *domain.Cart) error {
	r.snapshots[sessionID] = c
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, sessionID string) error {
	delete(r.snapshots, sessionID)
	return nil
}

func setupSnapshotRouter(handler *SnapshotHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(SessionFromHeader)
	r.Route("/session/cart", func(r chi.Router) {
		r.Get("/", handler.GetFragment)
		r.Put("/", handler.Dispatch)
		r.Delete("/", handler.Clear)
	})
	return r
}

func sessionRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("X-Session-ID", "sess-1")
	return req
}

func TestGetFragment_RendersPersistedSnapshot(t *testing.T) {
	store := testStore(t, &fakeGateway{})
	repo := newMemoryRepository()
	repo.snapshots["sess-1"] = &domain.Cart{
		Currency: "USD",
		Items:    []domain.Item{{ItemID: "p1", ItemName: "Shirt", Quantity: 2}},
	}
	router := setupSnapshotRouter(NewSnapshotHandler(store, repo, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodGet, "/session/cart/", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	fragment := rec.Body.String()
	assert.Contains(t, fragment, `type="hidden"`)
	assert.Contains(t, fragment, `name="storefront-cart"`)

	// The embedded value must decode back to the persisted snapshot.
	start := strings.Index(fragment, `value="`) + len(`value="`)
	end := strings.LastIndex(fragment, `"`)
	decoded, err := cart.DecodeSnapshot(url.Values{
		cart.SnapshotField: []string{strings.ReplaceAll(fragment[start:end], "&amp;", "&")},
	})
	require.NoError(t, err)
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "p1", decoded.Items[0].ItemID)
}

func TestGetFragment_NoPersistedSnapshotRendersEmptyCart(t *testing.T) {
	store := testStore(t, &fakeGateway{})
	router := setupSnapshotRouter(NewSnapshotHandler(store, newMemoryRepository(), testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodGet, "/session/cart/", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="storefront-cart"`)
}

func TestGetFragment_MissingSessionIsRejected(t *testing.T) {
	store := testStore(t, &fakeGateway{})
	router := setupSnapshotRouter(NewSnapshotHandler(store, newMemoryRepository(), testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/session/cart/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatch_HydratesStoreAndPersists(t *testing.T) {
	store := testStore(t, &fakeGateway{})
	repo := newMemoryRepository()
	router := setupSnapshotRouter(NewSnapshotHandler(store, repo, testLogger()))

	raw, err := cart.EncodeSnapshot(&domain.Cart{
		Currency: "BRL",
		Items:    []domain.Item{{ItemID: "p1", Quantity: 3}},
	})
	require.NoError(t, err)
	form := url.Values{cart.SnapshotField: []string{raw}}.Encode()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodPut, "/session/cart/", form))

	require.Equal(t, http.StatusNoContent, rec.Code)

	qty, ok := store.GetQuantity("p1")
	assert.True(t, ok)
	assert.Equal(t, 3, qty)

	persisted, err := repo.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "BRL", persisted.Currency)
}

func TestDispatch_MalformedSnapshotFallsBackToEmptyCart(t *testing.T) {
	store := testStore(t, &fakeGateway{})
	repo := newMemoryRepository()
	router := setupSnapshotRouter(NewSnapshotHandler(store, repo, testLogger()))

	form := url.Values{cart.SnapshotField: []string{"%7Bnot-json"}}.Encode()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodPut, "/session/cart/", form))

	require.Equal(t, http.StatusNoContent, rec.Code)

	c := store.GetCart()
	require.NotNil(t, c)
	assert.Empty(t, c.Items)

	persisted, err := repo.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, persisted.Items)
}

func TestClear_DropsPersistedSnapshot(t *testing.T) {
	store := testStore(t, &fakeGateway{})
	repo := newMemoryRepository()
	repo.snapshots["sess-1"] = &domain.Cart{Items: []domain.Item{}}
	router := setupSnapshotRouter(NewSnapshotHandler(store, repo, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sessionRequest(http.MethodDelete, "/session/cart/", ""))

	require.Equal(t, http.StatusNoContent, rec.Code)
	_, err := repo.Get(context.Background(), "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
