package cart

import (
	"context"

	"github.com/google/uuid"
)

// Line is a single (product, quantity) intent in a buyer's cart
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// Snapshot is the read-only view of a buyer's cart consumed by checkout.
// The cart itself is owned by an external service; checkout only ever reads
// it and clears it after a successful settlement.
type Snapshot struct {
	UserID uuid.UUID `json:"user_id"`
	Lines  []Line    `json:"lines"`
}

// IsEmpty returns true when the snapshot has no purchasable lines
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Store is the port to the external cart service
type Store interface {
	// Get returns the current cart snapshot for a user
	Get(ctx context.Context, userID uuid.UUID) (Snapshot, error)

	// Clear empties the user's cart. Called after successful settlement.
	Clear(ctx context.Context, userID uuid.UUID) error
}
