package inventory

import (
	"context"
	"errors"

	"github.com/store/backend/internal/domain/inventory"
	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryService serves the warehouse-facing stock operations. The
// reservation counters themselves are only ever touched by checkout and
// settlement through the repository's conditional updates; this service
// covers receipts, thresholds and reporting.
type InventoryService struct {
	stockRepo inventory.ProductStockRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(stockRepo inventory.ProductStockRepository) *InventoryService {
	return &InventoryService{stockRepo: stockRepo}
}

// ReceiveStock records a supplier delivery, creating the stock record on
// first receipt
func (s *InventoryService) ReceiveStock(ctx context.Context, productID uuid.UUID, req ReceiveStockRequest) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByProductID(ctx, productID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		stock, err = inventory.NewProductStock(productID, 0, 0)
		if err != nil {
			return nil, err
		}
	}

	if err := stock.Receive(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, stock); err != nil {
		return nil, err
	}

	response := ToStockResponse(stock)
	return &response, nil
}

// SetLowStockThreshold updates the alerting threshold for a product
func (s *InventoryService) SetLowStockThreshold(ctx context.Context, productID uuid.UUID, req SetThresholdRequest) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := stock.SetLowStockThreshold(req.Threshold); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, stock); err != nil {
		return nil, err
	}

	response := ToStockResponse(stock)
	return &response, nil
}

// GetStock returns the stock counters for a product
func (s *InventoryService) GetStock(ctx context.Context, productID uuid.UUID) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToStockResponse(stock)
	return &response, nil
}

// LowStockReport lists products whose available stock is at or below their
// threshold
func (s *InventoryService) LowStockReport(ctx context.Context) ([]StockResponse, error) {
	stocks, err := s.stockRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]StockResponse, 0, len(stocks))
	for idx := range stocks {
		report = append(report, ToStockResponse(&stocks[idx]))
	}
	return report, nil
}
