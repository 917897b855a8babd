package cache

import (
	"context"
	"sync"
)

// Memory is an in-process cache safe for concurrent readers and writers.
// Entries live until the process exits or the frame fingerprint rotates out
// from under them; stale fingerprints simply stop being asked for.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory builds an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
	return nil
}

// Len reports the number of cached entries, for tests and diagnostics.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
