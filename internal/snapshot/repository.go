// Package snapshot persists per-session cart snapshots so a returning
// session can rehydrate the storefront cart it left behind.
package snapshot

import (
	"context"

	"github.com/utafrali/minicart/internal/domain"
)

// Repository stores serialized cart snapshots keyed by storefront session.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
