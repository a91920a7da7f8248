package coordinator

import (
	"context"
	"sync"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

// mockCartService implements ports.CartService for testing.
type mockCartService struct {
	mu          sync.Mutex
	listCalls   int
	createCalls int
	appendCalls int
	lastCartID  string
	lastLines   []entity.LineItem

	listFn   func(ctx context.Context) ([]entity.CartReference, error)
	createFn func(ctx context.Context, lines []entity.LineItem) (*entity.Cart, error)
	appendFn func(ctx context.Context, cartID string, lines []entity.LineItem) (*entity.Cart, error)
}

var _ ports.CartService = (*mockCartService)(nil)

func (m *mockCartService) ListActiveCarts(ctx context.Context) ([]entity.CartReference, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCartService) CreateCart(ctx context.Context, lines []entity.LineItem) (*entity.Cart, error) {
	m.mu.Lock()
	m.createCalls++
	m.lastLines = lines
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(ctx, lines)
	}
	return &entity.Cart{ID: "new-cart"}, nil
}

func (m *mockCartService) AppendItems(ctx context.Context, cartID string, lines []entity.LineItem) (*entity.Cart, error) {
	m.mu.Lock()
	m.appendCalls++
	m.lastCartID = cartID
	m.lastLines = lines
	m.mu.Unlock()
	if m.appendFn != nil {
		return m.appendFn(ctx, cartID, lines)
	}
	return &entity.Cart{ID: cartID}, nil
}
