package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process object store used when no bucket is
// configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[ObjectKey(path)] = append([]byte(nil), data...)
}

func (m *MemoryStore) Fetch(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := ObjectKey(path)
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) UploadBytes(_ context.Context, key string, data []byte, _ string) error {
	m.Put(key, data)
	return nil
}
