// Package platform routes generic cart actions to per-commerce-platform
// adapters selected by configuration.
package platform

import (
	"context"
	"fmt"

	"github.com/utafrali/minicart/internal/domain"
	"github.com/utafrali/minicart/internal/gateway"
	apperrors "github.com/utafrali/minicart/pkg/errors"
)

// Platform identifies a supported commerce platform. The set is closed:
// configuration naming anything else is rejected at startup.
type Platform string

const (
	Shopify   Platform = "shopify"
	VTEX      Platform = "vtex"
	VNDA      Platform = "vnda"
	Wake      Platform = "wake"
	Linx      Platform = "linx"
	Nuvemshop Platform = "nuvemshop"
	Custom    Platform = "custom"
)

// All returns every known platform.
func All() []Platform {
	return []Platform{Shopify, VTEX, VNDA, Wake, Linx, Nuvemshop, Custom}
}

// Parse validates a configured platform name.
func Parse(name string) (Platform, error) {
	for _, p := range All() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", apperrors.InvalidInput(fmt.Sprintf("unknown platform %q", name))
}

// Registry holds the adapter for each platform that has one. Platforms
// without a registered adapter dispatch to an explicit unsupported
// implementation that fails fast on every action, so a deployment
// misconfiguration surfaces loudly on the first cart interaction instead of
// silently doing nothing.
type Registry struct {
	adapters map[Platform]gateway.Gateway
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[Platform]gateway.Gateway)}
}

// Register installs the adapter for a platform, replacing any previous one.
func (r *Registry) Register(p Platform, adapter gateway.Gateway) {
	r.adapters[p] = adapter
}

// For returns the adapter dispatching cart actions for the platform. The
// result is never nil.
func (r *Registry) For(p Platform) gateway.Gateway {
	if adapter, ok := r.adapters[p]; ok {
		return adapter
	}
	return unsupported{platform: p}
}

// unsupported rejects every action with an UnsupportedPlatformError.
type unsupported struct {
	platform Platform
}

func (u unsupported) AddItem(context.Context, gateway.AddItemRequest) (*domain.Item, error) {
	return nil, apperrors.UnsupportedPlatform("add to cart", string(u.platform))
}

func (u unsupported) UpdateQuantity(context.Context, gateway.UpdateQuantityRequest) (*domain.Item, error) {
	return nil, apperrors.UnsupportedPlatform("set quantity", string(u.platform))
}
