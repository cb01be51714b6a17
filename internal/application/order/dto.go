package order

import (
	"time"

	"github.com/store/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingInfoRequest carries the delivery destination supplied at checkout
type ShippingInfoRequest struct {
	FullName   string `json:"full_name" binding:"required,max=120"`
	Phone      string `json:"phone" binding:"max=32"`
	Street     string `json:"street" binding:"required,max=255"`
	City       string `json:"city" binding:"required,max=120"`
	State      string `json:"state" binding:"required,max=120"`
	PostalCode string `json:"postal_code" binding:"max=16"`
	Country    string `json:"country" binding:"max=100"`
}

// CreateOrderRequest is the checkout input
type CreateOrderRequest struct {
	Shipping ShippingInfoRequest `json:"shipping" binding:"required"`
}

// InitializePaymentRequest asks the gateway to open a charge for an order
type InitializePaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Email   string    `json:"email" binding:"required,email"`
}

// InitializePaymentResponse carries the hosted-payment handle back to the client
type InitializePaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// CancelOrderRequest carries the cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// UpdateStatusRequest is the admin fulfillment-status update input
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=255"`
}

// RefundRequest is the admin refund input. A nil amount requests a full refund.
type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason" binding:"max=255"`
}

// RefundResponse reports the refund outcome. When the gateway cannot process
// the refund automatically, RequiresManual is set and Instructions tell the
// operator how to proceed out of band.
type RefundResponse struct {
	Order           *OrderResponse `json:"order,omitempty"`
	AlreadyRefunded bool           `json:"already_refunded"`
	RequiresManual  bool           `json:"requires_manual"`
	Instructions    string         `json:"instructions,omitempty"`
}

// OrderItemResponse is one line snapshot in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	ImageURL  string          `json:"image_url,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PricingResponse is the order's price breakdown in API responses
type PricingResponse struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// PaymentResponse is the order's payment state in API responses
type PaymentResponse struct {
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	Reference     string     `json:"reference"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// TimelineEntryResponse is one audit trail entry in API responses
type TimelineEntryResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ShippingInfoResponse is the delivery destination in API responses
type ShippingInfoResponse struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// OrderResponse is the full order view
type OrderResponse struct {
	ID          uuid.UUID               `json:"id"`
	OrderNumber string                  `json:"order_number"`
	UserID      uuid.UUID               `json:"user_id"`
	Status      string                  `json:"status"`
	Items       []OrderItemResponse     `json:"items"`
	Shipping    ShippingInfoResponse    `json:"shipping"`
	Pricing     PricingResponse         `json:"pricing"`
	Payment     PaymentResponse         `json:"payment"`
	Timeline    []TimelineEntryResponse `json:"timeline"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// OrderListItemResponse is the compact order view for list endpoints
type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uuid.UUID       `json:"user_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToOrderResponse maps the aggregate to its full API view
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for idx := range o.Items {
		item := &o.Items[idx]
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
			LineTotal: item.LineTotal(),
		})
	}

	timeline := make([]TimelineEntryResponse, 0, len(o.Timeline))
	for idx := range o.Timeline {
		entry := &o.Timeline[idx]
		timeline = append(timeline, TimelineEntryResponse{
			Status:    entry.Status.String(),
			Note:      entry.Note,
			Timestamp: entry.CreatedAt,
		})
	}

	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      o.Status.String(),
		Items:       items,
		Shipping: ShippingInfoResponse{
			FullName:   o.Shipping.FullName,
			Phone:      o.Shipping.Phone,
			Street:     o.Shipping.Street,
			City:       o.Shipping.City,
			State:      o.Shipping.State,
			PostalCode: o.Shipping.PostalCode,
			Country:    o.Shipping.Country,
		},
		Pricing: PricingResponse{
			Subtotal:    o.Pricing.Subtotal,
			ShippingFee: o.Pricing.ShippingFee,
			Tax:         o.Pricing.Tax,
			Discount:    o.Pricing.Discount,
			Total:       o.Pricing.Total,
		},
		Payment: PaymentResponse{
			Method:        o.Payment.Method,
			Status:        o.Payment.Status.String(),
			Reference:     o.Payment.Reference,
			TransactionID: o.Payment.TransactionID,
			PaidAt:        o.Payment.PaidAt,
			FailureReason: o.Payment.FailureReason,
		},
		Timeline:  timeline,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// ToOrderListItemResponse maps the aggregate to its compact list view
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Status:        o.Status.String(),
		PaymentStatus: o.Payment.Status.String(),
		Total:         o.Pricing.Total,
		ItemCount:     len(o.Items),
		CreatedAt:     o.CreatedAt,
	}
}
