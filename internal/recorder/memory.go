package recorder

import (
	"slices"
	"sync"

	"TradeAdvisor/internal/model"
)

// MemoryStore is an in-process log used for tests and when persistence is not wanted.
type MemoryStore struct {
	mu      sync.Mutex
	entries []model.LogEntry
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Append(entry *model.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryStore) ReadAll() ([]model.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		return []model.LogEntry{}, nil
	}
	return slices.Clone(m.entries), nil
}

func (m *MemoryStore) Close() error { return nil }
