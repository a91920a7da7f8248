package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStores(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	stores := map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  NewRedisStore(rdb, time.Hour),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, _ := s.Recall(ctx, "alice:create", "k1"); ok {
				t.Fatal("expected nothing remembered yet")
			}
			locked, err := s.TryLock(ctx, "alice:create", "k1")
			if err != nil || !locked {
				t.Fatalf("first TryLock = %v, %v", locked, err)
			}
			if again, _ := s.TryLock(ctx, "alice:create", "k1"); again {
				t.Error("second TryLock should fail")
			}
			if other, _ := s.TryLock(ctx, "bob:create", "k1"); !other {
				t.Error("same key in another scope should lock")
			}

			if err := s.Remember(ctx, "alice:create", "k1", "cart-1"); err != nil {
				t.Fatalf("Remember: %v", err)
			}
			v, ok, err := s.Recall(ctx, "alice:create", "k1")
			if err != nil || !ok || v != "cart-1" {
				t.Errorf("Recall = %q, %v, %v", v, ok, err)
			}
		})
	}
}

func TestMemoryStore_expires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.TryLock(ctx, "sc", "k")
	s.Remember(ctx, "sc", "k", "v")

	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Recall(ctx, "sc", "k"); ok {
		t.Error("expected remembered value to expire")
	}
	if locked, _ := s.TryLock(ctx, "sc", "k"); !locked {
		t.Error("expected expired lock to be claimable")
	}
}

func TestRedisStore_expires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	s := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()

	s.TryLock(ctx, "sc", "k")
	s.Remember(ctx, "sc", "k", "v")
	mr.FastForward(2 * time.Minute)

	if _, ok, _ := s.Recall(ctx, "sc", "k"); ok {
		t.Error("expected remembered value to expire")
	}
	if locked, _ := s.TryLock(ctx, "sc", "k"); !locked {
		t.Error("expected expired lock to be claimable")
	}
}
