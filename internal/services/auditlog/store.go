package auditlog

import (
	"context"
	"sync"

	"github.com/BearBump/OrderConsole/internal/models"
)

// Store keeps the session's entries newest-first.
type Store interface {
	Prepend(ctx context.Context, e models.ActionEntry) error
	List(ctx context.Context) ([]models.ActionEntry, error)
}

// MemoryStore lives as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []models.ActionEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Prepend(_ context.Context, e models.ActionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]models.ActionEntry{e}, m.entries...)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]models.ActionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ActionEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}
