// Package events announces cart changes to other services.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
)

type Type string

const (
	CartCreated    Type = "cart.created"
	CartItemsAdded Type = "cart.items_added"
)

// Event is published after a cart write succeeds. LineItems holds what the
// write added, not the whole cart.
type Event struct {
	Type           Type              `json:"type"`
	CartID         string            `json:"cartId"`
	Owner          string            `json:"owner"`
	LineItems      []domain.LineItem `json:"lineItems"`
	IdempotencyKey string            `json:"idempotencyKey,omitempty"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, ev Event) error {
	slog.DebugContext(ctx, "event dropped, no broker configured", "type", ev.Type, "cart_id", ev.CartID)
	return nil
}
