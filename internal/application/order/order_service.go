package order

import (
	"context"

	"github.com/store/backend/internal/domain/order"
	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderListResult is a single page of orders with the total match count
type OrderListResult struct {
	Items []OrderListItemResponse `json:"items"`
	Total int64                   `json:"total"`
}

// OrderService serves read-side order queries
type OrderService struct {
	orderRepo order.Repository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetByID loads a single order. Pass uuid.Nil as userID for admin access;
// buyers only see their own orders.
func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && o.UserID != userID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber loads a single order by its human-facing number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string, userID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && o.UserID != userID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListForUser returns a page of the user's own orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*OrderListResult, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toListResult(orders, total), nil
}

// ListAll returns a page across all users (admin)
func (s *OrderService) ListAll(ctx context.Context, filter shared.Filter) (*OrderListResult, error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return toListResult(orders, total), nil
}

func toListResult(orders []order.Order, total int64) *OrderListResult {
	items := make([]OrderListItemResponse, 0, len(orders))
	for idx := range orders {
		items = append(items, ToOrderListItemResponse(&orders[idx]))
	}
	return &OrderListResult{Items: items, Total: total}
}
