package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
)

var ErrDuplicateItem = errors.New("duplicate item id")

// Store is the authoritative quantity per catalog item. The id space is
// fixed when the store is built.
type Store struct {
	mu       sync.RWMutex
	items    []entity.Item
	index    map[entity.ItemID]int
	feedback *Feedback
}

// NewStore copies items into a new store. Quantities start at zero.
func NewStore(items []entity.Item, feedback *Feedback) (*Store, error) {
	s := &Store{
		items:    make([]entity.Item, len(items)),
		index:    make(map[entity.ItemID]int, len(items)),
		feedback: feedback,
	}
	for i, it := range items {
		if _, dup := s.index[it.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateItem, it.ID)
		}
		it.Quantity = 0
		s.items[i] = it
		s.index[it.ID] = i
	}
	return s, nil
}

// SetQuantity applies a free-form text edit. Input that is not a
// non-negative base-10 integer leaves the store untouched.
func (s *Store) SetQuantity(id entity.ItemID, raw string) bool {
	n, ok := parseQuantity(raw)
	if !ok {
		return false
	}
	return s.SetQuantityValue(id, n)
}

// SetQuantityValue applies an absolute quantity, e.g. from +/- controls.
func (s *Store) SetQuantityValue(id entity.ItemID, n int) bool {
	if n < 0 {
		return false
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if ok {
		s.items[i].Quantity = n
	}
	s.mu.Unlock()

	if ok && s.feedback != nil {
		s.feedback.ClearError()
	}
	return ok
}

// Quantity reports the stored quantity for id.
func (s *Store) Quantity(id entity.ItemID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return 0, false
	}
	return s.items[i].Quantity, true
}

// Items returns a copy of the item set in load order.
func (s *Store) Items() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Item, len(s.items))
	copy(out, s.items)
	return out
}

func parseQuantity(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
