package inventory

import (
	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the inventory context
const (
	EventTypeStockReceived  = "inventory.stock_received"
	EventTypeStockReserved  = "inventory.stock_reserved"
	EventTypeStockReleased  = "inventory.stock_released"
	EventTypeStockDeducted  = "inventory.stock_deducted"
	EventTypeStockRunningLow = "inventory.stock_running_low"
)

const aggregateTypeProductStock = "ProductStock"

// StockReceivedEvent is emitted when on-hand stock increases
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// NewStockReceivedEvent creates a StockReceivedEvent
func NewStockReceivedEvent(stock *ProductStock, qty int64) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, stock.ID, aggregateTypeProductStock),
		ProductID:       stock.ProductID,
		Quantity:        qty,
	}
}

// StockReservedEvent is emitted when checkout places a hold on stock
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// NewStockReservedEvent creates a StockReservedEvent
func NewStockReservedEvent(stockID, productID uuid.UUID, qty int64) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, stockID, aggregateTypeProductStock),
		ProductID:       productID,
		Quantity:        qty,
	}
}

// StockReleasedEvent is emitted when a reservation returns to the pool
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// NewStockReleasedEvent creates a StockReleasedEvent
func NewStockReleasedEvent(stockID, productID uuid.UUID, qty int64) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, stockID, aggregateTypeProductStock),
		ProductID:       productID,
		Quantity:        qty,
	}
}

// StockDeductedEvent is emitted when a reservation converts into a permanent
// stock decrement on payment success
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// NewStockDeductedEvent creates a StockDeductedEvent
func NewStockDeductedEvent(stockID, productID uuid.UUID, qty int64) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, stockID, aggregateTypeProductStock),
		ProductID:       productID,
		Quantity:        qty,
	}
}
