// Package store persists carts for the cart service.
package store

import (
	"context"

	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
)

// Repository stores carts. Get returns domain.ErrCartNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, cart *domain.Cart) error
	Save(ctx context.Context, cart *domain.Cart) error
	Get(ctx context.Context, id string) (*domain.Cart, error)
	// ListByOwner returns the owner's carts oldest first.
	ListByOwner(ctx context.Context, owner string) ([]*domain.Cart, error)
}
