package inventory

import (
	"github.com/store/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// ReceiveStockRequest records a supplier delivery for a product
type ReceiveStockRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// SetThresholdRequest changes the low-stock alerting threshold
type SetThresholdRequest struct {
	Threshold int64 `json:"threshold" binding:"gte=0"`
}

// StockResponse is the read model of a product's stock counters
type StockResponse struct {
	ProductID         uuid.UUID `json:"product_id"`
	OnHand            int64     `json:"on_hand"`
	Reserved          int64     `json:"reserved"`
	Available         int64     `json:"available"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
}

// ToStockResponse converts a stock aggregate to its response DTO
func ToStockResponse(s *inventory.ProductStock) StockResponse {
	return StockResponse{
		ProductID:         s.ProductID,
		OnHand:            s.OnHand,
		Reserved:          s.Reserved,
		Available:         s.Available(),
		LowStockThreshold: s.LowStockThreshold,
		LowStock:          s.IsLowStock(),
	}
}
