package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
	"github.com/jcmexdev/quick-order/internal/pkg/cache"
)

var _ Repository = (*RedisRepository)(nil)

// RedisRepository keeps each cart as JSON under cart:cart:<id> and the
// owner's cart ids, oldest first, in the list cart:owner:<owner>.
type RedisRepository struct {
	rdb  *redis.Client
	keys cache.Keyspace
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb, keys: cache.Keyspace("cart")}
}

func (r *RedisRepository) Create(ctx context.Context, cart *domain.Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.keys.GenerateKey("cart", cart.ID), b, 0)
		p.RPush(ctx, r.keys.GenerateKey("owner", cart.Owner), cart.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create cart %s: %w", cart.ID, err)
	}
	return nil
}

func (r *RedisRepository) Save(ctx context.Context, cart *domain.Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	ok, err := r.rdb.SetXX(ctx, r.keys.GenerateKey("cart", cart.ID), b, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("save cart %s: %w", cart.ID, err)
	}
	if !ok {
		return domain.ErrCartNotFound
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*domain.Cart, error) {
	b, err := r.rdb.Get(ctx, r.keys.GenerateKey("cart", id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart %s: %w", id, err)
	}
	var c domain.Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return &c, nil
}

func (r *RedisRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Cart, error) {
	ids, err := r.rdb.LRange(ctx, r.keys.GenerateKey("owner", owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list carts of %s: %w", owner, err)
	}
	out := make([]*domain.Cart, 0, len(ids))
	for _, id := range ids {
		c, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrCartNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
