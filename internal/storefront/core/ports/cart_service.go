package ports

import (
	"context"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
)

// CartService is the remote cart storage service. Session credentials and
// request metadata travel in ctx.
type CartService interface {
	// ListActiveCarts returns the caller's active carts in service order.
	ListActiveCarts(ctx context.Context) ([]entity.CartReference, error)
	CreateCart(ctx context.Context, items []entity.LineItem) (*entity.Cart, error)
	AppendItems(ctx context.Context, cartID string, items []entity.LineItem) (*entity.Cart, error)
}

// Navigator receives the redirect the engine asks for after a successful
// submission. The engine never navigates on its own.
type Navigator interface {
	Navigate(ctx context.Context, target string)
}
