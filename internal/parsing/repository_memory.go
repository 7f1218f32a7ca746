package parsing

import (
	"context"
	"encoding/json"
	"sync"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string][]byte),
	}
}

func memoryKey(collection, docID string) string {
	return collection + "/" + docID
}

// Save stores an encoded copy so later changes to rec are not visible.
func (r *InMemoryRepository) Save(_ context.Context, collection, docID string, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[memoryKey(collection, docID)] = payload
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, collection, docID string) (*Record, error) {
	r.mu.RLock()
	payload, ok := r.records[memoryKey(collection, docID)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrRecordNotFound
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
