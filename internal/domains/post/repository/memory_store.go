package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps the post document in process memory.
// Documents are deep-copied on the way in and out.
type MemoryStore struct {
	mu  sync.RWMutex
	doc *Document
}

// Ensure MemoryStore implements DocumentStore.
var _ DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: &Document{NextID: 1}}
}

func (s *MemoryStore) Read(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone(), nil
}

func (s *MemoryStore) Write(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := doc.Clone()
	next.normalizeNextID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = next
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
