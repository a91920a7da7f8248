package submitlog

import (
	"context"
	"sync"
)

// MemoryRepository keeps entries in process memory. Used when no SQLite
// path is configured and in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Save(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryRepository) List(_ context.Context, formID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Entry
	for _, e := range m.entries {
		if e.FormID == formID {
			out = append(out, e)
		}
	}
	return out, nil
}
