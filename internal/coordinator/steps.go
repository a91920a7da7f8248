package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

// Step is a single remote call of a submission attempt.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// DispatchStep is the single remote write of an attempt.
type DispatchStep interface {
	Step
	Kind() entity.DispatchKind
	Cart() *entity.Cart
}

// --- ResolveStep ---

type ResolveStep struct {
	resolver *Resolver
	ref      *entity.CartReference
}

func NewResolveStep(resolver *Resolver) *ResolveStep {
	return &ResolveStep{resolver: resolver}
}

func (s *ResolveStep) Name() string { return "resolve" }

func (s *ResolveStep) Execute(ctx context.Context) error {
	ref, err := s.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	s.ref = ref
	return nil
}

// Ref is the resolved cart, nil when none exists.
func (s *ResolveStep) Ref() *entity.CartReference { return s.ref }

// --- CreateCartStep ---

type CreateCartStep struct {
	carts ports.CartService
	items []entity.LineItem
	cart  *entity.Cart
}

func NewCreateCartStep(carts ports.CartService, items []entity.LineItem) *CreateCartStep {
	return &CreateCartStep{carts: carts, items: items}
}

func (s *CreateCartStep) Name() string              { return string(entity.DispatchCreate) }
func (s *CreateCartStep) Kind() entity.DispatchKind { return entity.DispatchCreate }
func (s *CreateCartStep) Cart() *entity.Cart        { return s.cart }

func (s *CreateCartStep) Execute(ctx context.Context) error {
	cart, err := s.carts.CreateCart(ctx, s.items)
	if err != nil {
		return fmt.Errorf("create cart: %w", err)
	}
	s.cart = cart
	return nil
}

// --- AppendItemsStep ---

type AppendItemsStep struct {
	carts  ports.CartService
	cartID string
	items  []entity.LineItem
	cart   *entity.Cart
}

func NewAppendItemsStep(carts ports.CartService, cartID string, items []entity.LineItem) *AppendItemsStep {
	return &AppendItemsStep{carts: carts, cartID: cartID, items: items}
}

func (s *AppendItemsStep) Name() string              { return string(entity.DispatchAppend) }
func (s *AppendItemsStep) Kind() entity.DispatchKind { return entity.DispatchAppend }
func (s *AppendItemsStep) Cart() *entity.Cart        { return s.cart }

func (s *AppendItemsStep) Execute(ctx context.Context) error {
	cart, err := s.carts.AppendItems(ctx, s.cartID, s.items)
	if err != nil {
		return fmt.Errorf("append items to cart %s: %w", s.cartID, err)
	}
	s.cart = cart
	return nil
}

// dispatchFor picks create when no cart exists, append otherwise.
func dispatchFor(carts ports.CartService, ref *entity.CartReference, items []entity.LineItem) DispatchStep {
	if ref == nil {
		return NewCreateCartStep(carts, items)
	}
	return NewAppendItemsStep(carts, ref.CartID, items)
}
