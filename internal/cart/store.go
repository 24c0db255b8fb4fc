// Package cart implements the client-side cart state store: a single mutable
// snapshot shared across independently rendered UI fragments, mutated only
// through the remote gateway, with event-based change notification.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/utafrali/minicart/internal/analytics"
	"github.com/utafrali/minicart/internal/domain"
	"github.com/utafrali/minicart/internal/gateway"
	apperrors "github.com/utafrali/minicart/pkg/errors"
)

// MaxQuantityPerItem is the maximum quantity allowed for a single cart line.
const MaxQuantityPerItem = 100

// UpdatePolicy decides how responses of overlapping quantity updates on the
// same item are reconciled. The source design never settled this, so both
// behaviors are available.
type UpdatePolicy int

const (
	// LastResponseWins applies every gateway response in arrival order.
	// Responses arriving out of request order can invert the final state.
	LastResponseWins UpdatePolicy = iota

	// LastRequestWins stamps each mutation with a per-item sequence and
	// discards responses belonging to superseded requests.
	LastRequestWins
)

// Store owns the cart snapshot and mediates all mutations through the
// gateway. The zero snapshot (no cart dispatched yet) makes every mutating
// operation a deliberate no-op rather than an error, so a page without a
// hydrated cart keeps working.
type Store struct {
	mu      sync.RWMutex
	cart    *domain.Cart
	reqSeq  map[string]uint64
	pending atomic.Int64

	gw     gateway.Gateway
	bus    *Bus
	sink   analytics.Dispatcher
	logger *slog.Logger
	policy UpdatePolicy
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithUpdatePolicy sets the reconciliation policy for racing updates.
func WithUpdatePolicy(p UpdatePolicy) StoreOption {
	return func(s *Store) { s.policy = p }
}

// NewStore creates a store with no cart loaded.
func NewStore(gw gateway.Gateway, sink analytics.Dispatcher, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		reqSeq: make(map[string]uint64),
		gw:     gw,
		bus:    NewBus(),
		sink:   sink,
		logger: logger,
		policy: LastResponseWins,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCart returns the current snapshot, or nil if no cart was dispatched yet.
// The returned value is a shared read-only view; it may be replaced wholesale
// by the next Dispatch.
func (s *Store) GetCart() *domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart
}

// GetQuantity returns the quantity of the given item. The second return
// value is false when no cart is loaded or the item is absent.
func (s *Store) GetQuantity(itemID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return 0, false
	}
	return s.cart.Quantity(itemID)
}

// Pending returns the number of in-flight mutations. UI layers use this to
// render disabled states while a request is outstanding.
func (s *Store) Pending() int {
	return int(s.pending.Load())
}

// Dispatch replaces the entire snapshot from a serialized form and raises the
// cart event. This is the only way the store acquires its first snapshot.
// A malformed snapshot falls back to an empty cart instead of failing: a
// broken hydration payload must not take the rest of the page down.
// Dispatch is idempotent, and every call notifies subscribers again so
// fragments re-sync after a page-fragment swap.
func (s *Store) Dispatch(form url.Values) {
	cart, err := DecodeSnapshot(form)
	if err != nil {
		s.logger.Warn("cart snapshot decode failed, falling back to empty cart",
			slog.String("error", err.Error()),
		)
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()

	s.logger.Debug("cart snapshot dispatched",
		slog.Int("items", len(cart.Items)),
		slog.String("currency", cart.Currency),
	)

	s.bus.Emit(EventCart)
}

// SetQuantity updates the quantity of an existing line through the gateway.
// Quantity 0 removes the line. Returns (nil, nil) without a gateway call when
// no cart is loaded. On gateway failure the snapshot is left untouched.
func (s *Store) SetQuantity(ctx context.Context, itemID string, quantity int) (*domain.Item, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	s.mu.Lock()
	if s.cart == nil {
		s.mu.Unlock()
		return nil, nil
	}
	prior, hadPrior := s.cart.Quantity(itemID)
	s.reqSeq[itemID]++
	seq := s.reqSeq[itemID]
	s.mu.Unlock()

	s.pending.Add(1)
	item, err := s.gw.UpdateQuantity(ctx, gateway.UpdateQuantityRequest{ItemID: itemID, Quantity: quantity})
	s.pending.Add(-1)
	if err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}

	s.mu.Lock()
	if s.policy == LastRequestWins && s.reqSeq[itemID] != seq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale quantity response",
			slog.String("item_id", itemID),
			slog.Int("quantity", quantity),
		)
		return item, nil
	}
	s.applyQuantity(itemID, quantity, item)
	s.mu.Unlock()

	s.logger.Info("cart item quantity updated",
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity),
	)

	s.bus.Emit(EventItemUpdated)

	// The analytics payload carries the requested quantity, and direction is
	// judged against the quantity before this update.
	name := analytics.EventAddToCart
	if hadPrior && quantity <= prior {
		name = analytics.EventRemoveFromCart
	}
	payload := *item
	payload.Quantity = quantity
	s.sink.Dispatch(ctx, analytics.Event{
		Name:   name,
		Params: analytics.Params{Items: []domain.Item{payload}},
	})

	return item, nil
}

// AddToCart adds a product through the gateway. Duplicate adds accumulate:
// if the product is already a line in the cart the call is redirected to
// SetQuantity with the combined quantity instead of creating a second line.
// Returns (nil, nil) without a gateway call when no cart is loaded.
func (s *Store) AddToCart(ctx context.Context, req gateway.AddItemRequest) (*domain.Item, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if req.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	s.mu.RLock()
	if s.cart == nil {
		s.mu.RUnlock()
		return nil, nil
	}
	var existingQty int
	existing := s.cart.FindItem(req.ProductID)
	if existing != nil {
		existingQty = existing.Quantity
	}
	s.mu.RUnlock()

	if existing != nil {
		return s.SetQuantity(ctx, req.ProductID, existingQty+req.Quantity)
	}

	s.pending.Add(1)
	item, err := s.gw.AddItem(ctx, req)
	s.pending.Add(-1)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	s.mu.Lock()
	s.cart.Items = append(s.cart.Items, *item)
	s.mu.Unlock()

	s.logger.Info("item added to cart",
		slog.String("item_id", item.ItemID),
		slog.Int("quantity", item.Quantity),
	)

	s.bus.Emit(EventItemAdded)

	s.sink.Dispatch(ctx, analytics.Event{
		Name:   analytics.EventAddToCart,
		Params: analytics.Params{Items: []domain.Item{*item}},
	})

	return item, nil
}

// applyQuantity patches the local items sequence with the gateway's result.
// Quantity 0 removes the line; otherwise the returned item replaces the line
// with the requested quantity. Callers hold the write lock.
func (s *Store) applyQuantity(itemID string, quantity int, item *domain.Item) {
	if quantity == 0 {
		for i := range s.cart.Items {
			if s.cart.Items[i].ItemID == itemID {
				s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
				return
			}
		}
		return
	}

	updated := *item
	updated.Quantity = quantity
	for i := range s.cart.Items {
		if s.cart.Items[i].ItemID == itemID {
			s.cart.Items[i] = updated
			return
		}
	}
	s.cart.Items = append(s.cart.Items, updated)
}
