package order

import (
	"context"

	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for orders
type Repository interface {
	// FindByID finds an order by its ID, with items and timeline loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-facing number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByPaymentReference finds the order correlated with a gateway
	// payment reference
	FindByPaymentReference(ctx context.Context, reference string) (*Order, error)

	// FindByUser lists a buyer's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountByUser counts a buyer's orders
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// FindAll lists orders with optional status filtering (admin)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter (admin)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save inserts a new order together with its items and timeline
	Save(ctx context.Context, o *Order) error

	// SaveWithLock updates the order head row guarded by the aggregate
	// version (optimistic compare-and-swap). Returns
	// shared.ErrConcurrencyConflict when another transaction settled the
	// order first. Timeline rows are appended via AppendTimeline.
	SaveWithLock(ctx context.Context, o *Order) error

	// AppendTimeline inserts one audit trail entry
	AppendTimeline(ctx context.Context, entry *TimelineEntry) error

	// NextOrderNumber reserves the next number in the date-scoped sequence
	// (format ORD-YYYYMMDD-NNNNN) by atomically incrementing a per-day
	// counter row inside the current transaction.
	NextOrderNumber(ctx context.Context) (string, error)
}
