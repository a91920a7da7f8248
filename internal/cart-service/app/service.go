package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
	"github.com/jcmexdev/quick-order/internal/cart-service/events"
	"github.com/jcmexdev/quick-order/internal/cart-service/idempotency"
	"github.com/jcmexdev/quick-order/internal/cart-service/store"
)

// ErrRequestInProgress is returned when the same idempotency key is being
// processed by another request.
var ErrRequestInProgress = errors.New("a request with this idempotency key is in progress")

// CartService implements cart reads and writes for authenticated owners.
type CartService struct {
	carts     store.Repository
	idem      idempotency.Store
	publisher events.Publisher

	// writes serialises read-modify-write of carts within this process.
	writes sync.Mutex
	now    func() time.Time
}

func NewCartService(carts store.Repository, idem idempotency.Store, publisher events.Publisher) *CartService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CartService{carts: carts, idem: idem, publisher: publisher, now: time.Now}
}

// ActiveCarts returns the owner's carts, oldest first.
func (s *CartService) ActiveCarts(ctx context.Context, owner string) ([]*domain.Cart, error) {
	return s.carts.ListByOwner(ctx, owner)
}

// Create opens a cart holding items. With a non-empty key a replay returns
// the cart created the first time; replayed reports that case.
func (s *CartService) Create(ctx context.Context, owner, key string, items []domain.LineItem) (cart *domain.Cart, replayed bool, err error) {
	if err := domain.ValidateLineItems(items); err != nil {
		return nil, false, err
	}

	id, replayed, err := s.once(ctx, owner+":create", key, func() (string, error) {
		now := s.now().UTC()
		c := &domain.Cart{
			ID:        uuid.NewString(),
			Owner:     owner,
			CreatedAt: now,
		}
		c.AddItems(items, now)
		if err := s.carts.Create(ctx, c); err != nil {
			return "", err
		}
		s.publish(ctx, events.CartCreated, c, items, key)
		return c.ID, nil
	})
	if err != nil {
		return nil, false, err
	}
	cart, err = s.carts.Get(ctx, id)
	return cart, replayed, err
}

// AddItems merges items into the owner's cart. Carts of other owners are
// reported as domain.ErrCartNotFound.
func (s *CartService) AddItems(ctx context.Context, owner, cartID, key string, items []domain.LineItem) (cart *domain.Cart, replayed bool, err error) {
	if err := domain.ValidateLineItems(items); err != nil {
		return nil, false, err
	}
	if _, err := s.owned(ctx, owner, cartID); err != nil {
		return nil, false, err
	}

	_, replayed, err = s.once(ctx, owner+":append:"+cartID, key, func() (string, error) {
		s.writes.Lock()
		defer s.writes.Unlock()

		c, err := s.owned(ctx, owner, cartID)
		if err != nil {
			return "", err
		}
		c.AddItems(items, s.now().UTC())
		if err := s.carts.Save(ctx, c); err != nil {
			return "", err
		}
		s.publish(ctx, events.CartItemsAdded, c, items, key)
		return c.ID, nil
	})
	if err != nil {
		return nil, false, err
	}
	cart, err = s.carts.Get(ctx, cartID)
	return cart, replayed, err
}

func (s *CartService) owned(ctx context.Context, owner, cartID string) (*domain.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.Owner != owner {
		return nil, domain.ErrCartNotFound
	}
	return c, nil
}

// once runs write at most once per (scope, key) and returns the cart id it
// produced. An empty key disables the check.
func (s *CartService) once(ctx context.Context, scope, key string, write func() (string, error)) (string, bool, error) {
	if key == "" {
		id, err := write()
		return id, false, err
	}

	if id, ok, err := s.idem.Recall(ctx, scope, key); err != nil {
		return "", false, fmt.Errorf("recall idempotency key: %w", err)
	} else if ok {
		slog.InfoContext(ctx, "replayed write", "scope", scope, "idempotency_key", key, "cart_id", id)
		return id, true, nil
	}

	locked, err := s.idem.TryLock(ctx, scope, key)
	if err != nil {
		return "", false, fmt.Errorf("lock idempotency key: %w", err)
	}
	if !locked {
		if id, ok, _ := s.idem.Recall(ctx, scope, key); ok {
			return id, true, nil
		}
		return "", false, ErrRequestInProgress
	}

	id, err := write()
	if err != nil {
		return "", false, err
	}
	if err := s.idem.Remember(ctx, scope, key, id); err != nil {
		slog.WarnContext(ctx, "failed to remember idempotency key", "idempotency_key", key, "error", err)
	}
	return id, false, nil
}

func (s *CartService) publish(ctx context.Context, typ events.Type, c *domain.Cart, items []domain.LineItem, key string) {
	ev := events.Event{
		Type:           typ,
		CartID:         c.ID,
		Owner:          c.Owner,
		LineItems:      items,
		IdempotencyKey: key,
		OccurredAt:     s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish cart event", "type", typ, "cart_id", c.ID, "error", err)
	}
}
