package cart

import (
	"context"
	"sync"
)

// Store persists carts keyed by owner. Implementations return an empty
// cart, never an error, for owners that have no cart yet.
type Store interface {
	Load(ctx context.Context, owner string) (*Cart, error)
	Save(ctx context.Context, owner string, cart *Cart) error
	Delete(ctx context.Context, owner string) error
}

// MemoryStore keeps carts in process memory. Used in tests and as the
// fallback when Redis is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]Cart
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (s *MemoryStore) Load(_ context.Context, owner string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.carts[owner]
	if !ok {
		return &Cart{}, nil
	}
	copied := stored
	copied.Lines = append([]Line(nil), stored.Lines...)
	return &copied, nil
}

func (s *MemoryStore) Save(_ context.Context, owner string, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cart
	copied.Lines = append([]Line(nil), cart.Lines...)
	s.carts[owner] = copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, owner)
	return nil
}
