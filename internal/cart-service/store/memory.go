package store

import (
	"context"
	"sync"

	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
)

var _ Repository = (*MemoryRepository)(nil)

type MemoryRepository struct {
	mu     sync.RWMutex
	carts  map[string]domain.Cart
	owners map[string][]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts:  make(map[string]domain.Cart),
		owners: make(map[string][]string),
	}
}

func (m *MemoryRepository) Create(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.ID] = clone(cart)
	m.owners[cart.Owner] = append(m.owners[cart.Owner], cart.ID)
	return nil
}

func (m *MemoryRepository) Save(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[cart.ID]; !ok {
		return domain.ErrCartNotFound
	}
	m.carts[cart.ID] = clone(cart)
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	out := clone(&c)
	return &out, nil
}

func (m *MemoryRepository) ListByOwner(_ context.Context, owner string) ([]*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.owners[owner]
	out := make([]*domain.Cart, 0, len(ids))
	for _, id := range ids {
		c := m.carts[id]
		cp := clone(&c)
		out = append(out, &cp)
	}
	return out, nil
}

func clone(c *domain.Cart) domain.Cart {
	out := *c
	out.LineItems = append([]domain.LineItem(nil), c.LineItems...)
	return out
}
