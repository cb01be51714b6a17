package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ProductStockRepository defines persistence operations for product stock.
//
// Reserve, Release and Deduct are the only mutations of the stock counters
// used by checkout and settlement. Each must execute as a single conditional
// UPDATE so that concurrent callers targeting the same product serialize in
// the database, never through an application-level read-modify-write.
type ProductStockRepository interface {
	// FindByProductID finds the stock record for a product
	FindByProductID(ctx context.Context, productID uuid.UUID) (*ProductStock, error)

	// FindByProductIDs finds stock records for multiple products
	FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]ProductStock, error)

	// Reserve atomically increments Reserved by qty.
	// Fails with shared.ErrInsufficientStock when OnHand-Reserved < qty and
	// with shared.ErrNotFound when no stock record exists for the product.
	Reserve(ctx context.Context, productID uuid.UUID, qty int64) error

	// Release atomically decrements Reserved by qty, clamping at zero.
	Release(ctx context.Context, productID uuid.UUID, qty int64) error

	// Deduct atomically decrements OnHand by qty and Reserved by qty
	// (clamped at zero). Fails with shared.ErrInsufficientOnHand when
	// OnHand < qty. Used only on confirmed payment.
	Deduct(ctx context.Context, productID uuid.UUID, qty int64) error

	// FindLowStock returns stock records whose available quantity is at or
	// below their low-stock threshold
	FindLowStock(ctx context.Context) ([]ProductStock, error)

	// Save creates or updates a stock record (admin stock receipt and
	// threshold changes; never used for reservation counters)
	Save(ctx context.Context, stock *ProductStock) error
}
