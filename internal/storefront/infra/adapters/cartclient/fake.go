package cartclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

var _ ports.CartService = (*Fake)(nil)

// Fake is an in-memory ports.CartService scoped by session token, intended
// for local development when no cart service is configured.
type Fake struct {
	mu    sync.Mutex
	carts map[string][]string // session token -> cart ids
	lines map[string][]entity.LineItem
}

func NewFake() *Fake {
	return &Fake{
		carts: make(map[string][]string),
		lines: make(map[string][]entity.LineItem),
	}
}

func (f *Fake) ListActiveCarts(ctx context.Context) ([]entity.CartReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.carts[interceptors.SessionToken(ctx)]
	refs := make([]entity.CartReference, len(ids))
	for i, id := range ids {
		refs[i] = entity.CartReference{CartID: id}
	}
	return refs, nil
}

func (f *Fake) CreateCart(ctx context.Context, items []entity.LineItem) (*entity.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner := interceptors.SessionToken(ctx)
	id := uuid.NewString()
	f.carts[owner] = append(f.carts[owner], id)
	f.lines[id] = append([]entity.LineItem(nil), items...)
	return &entity.Cart{ID: id}, nil
}

func (f *Fake) AppendItems(ctx context.Context, cartID string, items []entity.LineItem) (*entity.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lines[cartID]; !ok {
		return nil, &ServiceError{Status: 404, Title: "Not Found", Detail: fmt.Sprintf("cart %s does not exist", cartID)}
	}
	f.lines[cartID] = append(f.lines[cartID], items...)
	return &entity.Cart{ID: cartID}, nil
}

// Lines returns what was written to cartID so far.
func (f *Fake) Lines(cartID string) []entity.LineItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.LineItem(nil), f.lines[cartID]...)
}
