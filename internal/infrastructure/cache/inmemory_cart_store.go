package cache

import (
	"context"
	"sync"

	"github.com/store/backend/internal/domain/cart"
	"github.com/google/uuid"
)

// InMemoryCartStore is a process-local cart.Store for development and
// tests. Not suitable for multi-instance deployments.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]cart.Line
}

// NewInMemoryCartStore creates an empty in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{carts: make(map[uuid.UUID][]cart.Line)}
}

// Get returns the current cart snapshot for a user
func (s *InMemoryCartStore) Get(_ context.Context, userID uuid.UUID) (cart.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]cart.Line, len(s.carts[userID]))
	copy(lines, s.carts[userID])
	return cart.Snapshot{UserID: userID, Lines: lines}, nil
}

// Put replaces the user's cart lines
func (s *InMemoryCartStore) Put(_ context.Context, userID uuid.UUID, lines []cart.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]cart.Line, len(lines))
	copy(snapshot, lines)
	s.carts[userID] = snapshot
	return nil
}

// Clear empties the user's cart
func (s *InMemoryCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}

// Ensure InMemoryCartStore implements the Store port
var _ cart.Store = (*InMemoryCartStore)(nil)
