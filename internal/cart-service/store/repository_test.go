package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
)

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"redis":  NewRedisRepository(rdb),
	}
}

func newCart(id, owner string) *domain.Cart {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Cart{
		ID:        id,
		Owner:     owner,
		LineItems: []domain.LineItem{{ProductID: 1, Quantity: 2}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepository_CreateGetSave(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.Create(ctx, newCart("c1", "alice")); err != nil {
				t.Fatalf("Create: %v", err)
			}

			got, err := repo.Get(ctx, "c1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Owner != "alice" || got.Quantity(1) != 2 {
				t.Errorf("unexpected cart %+v", got)
			}

			got.AddItems([]domain.LineItem{{ProductID: 1, Quantity: 1}}, time.Now())
			if err := repo.Save(ctx, got); err != nil {
				t.Fatalf("Save: %v", err)
			}
			again, _ := repo.Get(ctx, "c1")
			if again.Quantity(1) != 3 {
				t.Errorf("expected saved quantity 3, got %d", again.Quantity(1))
			}
		})
	}
}

func TestRepository_unknownCart(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := repo.Get(ctx, "nope"); !errors.Is(err, domain.ErrCartNotFound) {
				t.Errorf("Get: expected ErrCartNotFound, got %v", err)
			}
			if err := repo.Save(ctx, newCart("nope", "alice")); !errors.Is(err, domain.ErrCartNotFound) {
				t.Errorf("Save: expected ErrCartNotFound, got %v", err)
			}
		})
	}
}

func TestRepository_ListByOwner(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = repo.Create(ctx, newCart("a1", "alice"))
			_ = repo.Create(ctx, newCart("b1", "bob"))
			_ = repo.Create(ctx, newCart("a2", "alice"))

			carts, err := repo.ListByOwner(ctx, "alice")
			if err != nil {
				t.Fatalf("ListByOwner: %v", err)
			}
			if len(carts) != 2 || carts[0].ID != "a1" || carts[1].ID != "a2" {
				t.Errorf("expected [a1 a2], got %+v", carts)
			}
			if none, _ := repo.ListByOwner(ctx, "carol"); len(none) != 0 {
				t.Errorf("expected no carts for carol, got %+v", none)
			}
		})
	}
}

func TestMemoryRepository_returnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	_ = repo.Create(ctx, newCart("c1", "alice"))

	c, _ := repo.Get(ctx, "c1")
	c.LineItems[0].Quantity = 100

	again, _ := repo.Get(ctx, "c1")
	if again.Quantity(1) != 2 {
		t.Errorf("mutation leaked into repository: %d", again.Quantity(1))
	}
}
