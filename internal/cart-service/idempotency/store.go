// Package idempotency lets the cart service recognise replayed writes by
// their X-Idempotency-Key.
package idempotency

import (
	"context"
	"sync"
	"time"
)

// Store records which keys were seen and what they produced.
//
// TryLock claims key within scope and reports false when it was already
// claimed. Remember stores the result of the claimed write; Recall reads it
// back.
type Store interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	value     string
	hasValue  bool
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scope + ":" + key
	if e, ok := m.entries[k]; ok && m.now().Before(e.expiresAt) {
		return false, nil
	}
	m.entries[k] = memoryEntry{expiresAt: m.now().Add(m.ttl)}
	return true, nil
}

func (m *MemoryStore) Remember(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[scope+":"+key] = memoryEntry{value: value, hasValue: true, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[scope+":"+key]
	if !ok || !e.hasValue || !m.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}
