package inventory

import (
	"time"

	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductStock tracks the stock counters for a single product.
// It is the aggregate root for inventory operations.
//
// OnHand is the physical quantity in the warehouse. Reserved is the portion of
// OnHand held for pending orders. Stock available for new checkouts is
// OnHand - Reserved; the invariant Reserved <= OnHand holds at all times.
type ProductStock struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OnHand            int64     `gorm:"not null;default:0"`
	Reserved          int64     `gorm:"not null;default:0"`
	LowStockThreshold int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductStock) TableName() string {
	return "product_stocks"
}

// NewProductStock creates a stock record for a product
func NewProductStock(productID uuid.UUID, onHand, lowStockThreshold int64) (*ProductStock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if onHand < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "On-hand quantity cannot be negative")
	}
	if lowStockThreshold < 0 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	return &ProductStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		OnHand:            onHand,
		Reserved:          0,
		LowStockThreshold: lowStockThreshold,
	}, nil
}

// Available returns the quantity open for new reservations
func (s *ProductStock) Available() int64 {
	available := s.OnHand - s.Reserved
	if available < 0 {
		return 0
	}
	return available
}

// IsLowStock reports whether available stock has fallen to the threshold
func (s *ProductStock) IsLowStock() bool {
	return s.Available() <= s.LowStockThreshold
}

// Receive increases on-hand stock, e.g. after a supplier delivery
func (s *ProductStock) Receive(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	s.OnHand += qty
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewStockReceivedEvent(s, qty))
	return nil
}

// SetLowStockThreshold updates the alerting threshold
func (s *ProductStock) SetLowStockThreshold(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	s.LowStockThreshold = threshold
	s.UpdatedAt = time.Now()
	return nil
}
