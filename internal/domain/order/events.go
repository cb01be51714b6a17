package order

import (
	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the order context
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderConfirmed     = "order.confirmed"
	EventTypeOrderPaymentFailed = "order.payment_failed"
	EventTypeOrderCancelled     = "order.cancelled"
	EventTypeOrderRefunded      = "order.refunded"
	EventTypeOrderStatusChanged = "order.status_changed"
)

const aggregateTypeOrder = "Order"

// OrderCreatedEvent is emitted when checkout inserts a pending order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber      string          `json:"order_number"`
	UserID           uuid.UUID       `json:"user_id"`
	Total            decimal.Decimal `json:"total"`
	PaymentReference string          `json:"payment_reference"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderCreated, o.ID, aggregateTypeOrder),
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		Total:            o.Pricing.Total,
		PaymentReference: o.Payment.Reference,
	}
}

// OrderConfirmedEvent is emitted when a payment settles successfully
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string `json:"order_number"`
	TransactionID string `json:"transaction_id"`
}

// NewOrderConfirmedEvent creates an OrderConfirmedEvent
func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, o.ID, aggregateTypeOrder),
		OrderNumber:     o.OrderNumber,
		TransactionID:   o.Payment.TransactionID,
	}
}

// OrderPaymentFailedEvent is emitted when the gateway reports a failed charge
type OrderPaymentFailedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderPaymentFailedEvent creates an OrderPaymentFailedEvent
func NewOrderPaymentFailedEvent(o *Order, reason string) *OrderPaymentFailedEvent {
	return &OrderPaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentFailed, o.ID, aggregateTypeOrder),
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}

// OrderCancelledEvent is emitted when a pending order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, o.ID, aggregateTypeOrder),
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}

// OrderRefundedEvent is emitted after a gateway-confirmed refund
type OrderRefundedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderRefundedEvent creates an OrderRefundedEvent
func NewOrderRefundedEvent(o *Order, reason string) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefunded, o.ID, aggregateTypeOrder),
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}

// OrderStatusChangedEvent is emitted on admin-driven fulfillment transitions
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	From        Status `json:"from"`
	To          Status `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, o.ID, aggregateTypeOrder),
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              to,
	}
}
