package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

// Resolver finds the caller's active cart.
type Resolver struct {
	carts ports.CartService
}

func NewResolver(carts ports.CartService) *Resolver {
	return &Resolver{carts: carts}
}

// Resolve issues one read against the cart service. It returns nil when the
// caller has no active cart. When the service reports several, the first
// one in service order wins.
func (r *Resolver) Resolve(ctx context.Context) (*entity.CartReference, error) {
	carts, err := r.carts.ListActiveCarts(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve active cart: %w", err)
	}
	if len(carts) == 0 {
		return nil, nil
	}
	ref := carts[0]
	return &ref, nil
}
