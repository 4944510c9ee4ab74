package scoring

import (
	"sync"
)

// ResultStorage defines the interface for loading and saving results.
// This allows for mocking the storage layer during tests.
type ResultStorage interface {
	// LoadAll loads all result entries.
	LoadAll() ([]ResultEntry, error)
	// SaveAll replaces the stored entries.
	SaveAll(entries []ResultEntry) error
}

// MemoryStorage keeps results for the lifetime of the process only.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries []ResultEntry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// LoadAll returns a copy of the stored entries.
func (ms *MemoryStorage) LoadAll() ([]ResultEntry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entries := make([]ResultEntry, len(ms.entries))
	copy(entries, ms.entries)
	return entries, nil
}

func (ms *MemoryStorage) SaveAll(entries []ResultEntry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries = make([]ResultEntry, len(entries))
	copy(ms.entries, entries)
	return nil
}
