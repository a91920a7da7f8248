package httpx

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/form"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

var ErrFormNotFound = errors.New("form not found")

// sessionNavigator keeps the redirect a form asked for. The presentation
// layer reads it back through the snapshot.
type sessionNavigator struct {
	mu     sync.Mutex
	target string
}

var _ ports.Navigator = (*sessionNavigator)(nil)

func (n *sessionNavigator) Navigate(_ context.Context, target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = target
}

func (n *sessionNavigator) Target() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}

type session struct {
	form  *form.Form
	owner string
	nav   *sessionNavigator
}

// Registry holds the open forms of this process, keyed by form id.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	submitter form.CartSubmitter
	cartPage  string
}

func NewRegistry(submitter form.CartSubmitter, cartPage string) *Registry {
	if cartPage == "" {
		cartPage = form.DefaultCartPage
	}
	return &Registry{
		sessions:  make(map[string]*session),
		submitter: submitter,
		cartPage:  cartPage,
	}
}

// open creates a form over items for the session identified by owner.
func (r *Registry) open(owner string, items []entity.Item) (*session, error) {
	nav := &sessionNavigator{}
	f, err := form.New(uuid.NewString(), items, r.submitter, nav, form.WithCartPage(r.cartPage))
	if err != nil {
		return nil, err
	}
	s := &session{form: f, owner: owner, nav: nav}

	r.mu.Lock()
	r.sessions[f.ID()] = s
	r.mu.Unlock()
	return s, nil
}

// get returns the form id owned by owner. Forms of other sessions are
// reported as not found.
func (r *Registry) get(id, owner string) (*session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || s.owner != owner {
		return nil, ErrFormNotFound
	}
	return s, nil
}

func (r *Registry) remove(id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.owner != owner {
		return ErrFormNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
