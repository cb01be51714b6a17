package order

import (
	"time"

	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the fulfillment status of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends the order lifecycle.
// Terminal orders are retained for audit, never deleted.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

// CanTransitionTo checks if the status can transition to the target status.
// All transitions are monotone forward; terminal states never move again.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled || target == StatusFailed
	case StatusConfirmed:
		return target == StatusProcessing
	case StatusProcessing:
		return target == StatusShipped
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled, StatusFailed:
		return false
	}
	return false
}

// PaymentStatus represents the settlement outcome of an order's payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the payment outcome is settled. A settled
// outcome is never reverted; re-delivered gateway events become no-ops.
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentStatusPending
}

// Item is a line snapshot captured at checkout time. Name, unit price and
// image are frozen copies of the catalog entry - historical orders stay
// immutable regardless of later catalog edits.
type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"size:255;not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int64           `gorm:"not null"`
	ImageURL  string          `gorm:"size:512"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates an order line snapshot
func NewItem(orderID, productID uuid.UUID, name string, unitPrice valueobject.Money, quantity int64, imageURL string) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Item{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice.Amount(),
		Quantity:  quantity,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}, nil
}

// LineTotal returns UnitPrice * Quantity
func (i *Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Pricing is the order's price breakdown, fixed at creation.
// Invariant: Total = Subtotal + ShippingFee + Tax - Discount.
type Pricing struct {
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Tax         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// NewPricing builds a price breakdown and computes the total
func NewPricing(subtotal, shippingFee, tax, discount decimal.Decimal) (Pricing, error) {
	if subtotal.IsNegative() || shippingFee.IsNegative() || tax.IsNegative() || discount.IsNegative() {
		return Pricing{}, shared.NewDomainError("INVALID_PRICING", "Pricing components cannot be negative")
	}
	total := subtotal.Add(shippingFee).Add(tax).Sub(discount)
	if total.IsNegative() {
		return Pricing{}, shared.NewDomainError("INVALID_PRICING", "Order total cannot be negative")
	}
	return Pricing{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Tax:         tax,
		Discount:    discount,
		Total:       total,
	}, nil
}

// Consistent verifies the pricing invariant
func (p Pricing) Consistent() bool {
	return p.Total.Equal(p.Subtotal.Add(p.ShippingFee).Add(p.Tax).Sub(p.Discount))
}

// TotalMoney returns the total as a Money value object
func (p Pricing) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(p.Total)
}

// Payment holds the order's payment state. Reference is the single
// correlation key with the external gateway, generated before the gateway is
// ever contacted and unique per order.
type Payment struct {
	Method        string        `gorm:"size:32;not null"`
	Status        PaymentStatus `gorm:"size:16;not null;default:'pending'"`
	Reference     string        `gorm:"size:64;not null;uniqueIndex"`
	TransactionID string        `gorm:"size:128"`
	PaidAt        *time.Time
	FailureReason string `gorm:"size:255"`
}

// TimelineEntry is one row of the order's append-only audit trail.
// Every status transition appends exactly one entry.
type TimelineEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    Status    `gorm:"size:16;not null"`
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (TimelineEntry) TableName() string {
	return "order_timeline"
}

// Order is the aggregate root for a customer order. It owns its items,
// pricing, payment and timeline exclusively; UserID and the per-item
// ProductIDs are non-owning references.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string    `gorm:"size:32;not null;uniqueIndex"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Items       []Item    `gorm:"foreignKey:OrderID;references:ID"`
	Shipping    valueobject.ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_"`
	Pricing     Pricing                     `gorm:"embedded"`
	Payment     Payment                     `gorm:"embedded;embeddedPrefix:payment_"`
	Status      Status                      `gorm:"size:16;not null;default:'pending';index"`
	Timeline    []TimelineEntry             `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with its initial timeline entry.
// Only the checkout coordinator creates orders; the payment reference must
// already be generated so the gateway can be contacted afterwards.
func NewOrder(orderNumber string, userID uuid.UUID, shipping valueobject.ShippingAddress, pricing Pricing, paymentMethod, paymentReference string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if paymentReference == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_REFERENCE", "Payment reference cannot be empty")
	}
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}
	if shipping.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if !pricing.Consistent() {
		return nil, shared.NewDomainError("INVALID_PRICING", "Order total does not match its components")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		Items:             make([]Item, 0),
		Shipping:          shipping,
		Pricing:           pricing,
		Payment: Payment{
			Method:    paymentMethod,
			Status:    PaymentStatusPending,
			Reference: paymentReference,
		},
		Status:   StatusPending,
		Timeline: make([]TimelineEntry, 0),
	}

	o.appendTimeline(StatusPending, "Order created")
	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AddItem attaches a line snapshot. Only allowed while the order is pending
// and before the checkout transaction commits.
func (o *Order) AddItem(productID uuid.UUID, name string, unitPrice valueobject.Money, quantity int64, imageURL string) (*Item, error) {
	if o.Status != StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}

	item, err := NewItem(o.ID, productID, name, unitPrice, quantity, imageURL)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()

	return item, nil
}

// ItemsSubtotal sums the line totals using the snapshotted unit prices
func (o *Order) ItemsSubtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for idx := range o.Items {
		subtotal = subtotal.Add(o.Items[idx].LineTotal())
	}
	return subtotal
}

// MarkPaymentCompleted applies a successful settlement outcome: payment
// completed, order confirmed. Callers must run the idempotency guard first;
// re-applying to a settled order fails with ErrInvalidState.
func (o *Order) MarkPaymentCompleted(transactionID string, paidAt time.Time) error {
	if o.Payment.Status != PaymentStatusPending {
		return shared.ErrInvalidState
	}
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.ErrInvalidState
	}

	o.Payment.Status = PaymentStatusCompleted
	o.Payment.TransactionID = transactionID
	o.Payment.PaidAt = &paidAt
	o.Status = StatusConfirmed
	o.appendTimeline(StatusConfirmed, "Payment confirmed")
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// MarkPaymentFailed applies a failed settlement outcome
func (o *Order) MarkPaymentFailed(reason string) error {
	if o.Payment.Status != PaymentStatusPending {
		return shared.ErrInvalidState
	}
	if !o.Status.CanTransitionTo(StatusFailed) {
		return shared.ErrInvalidState
	}

	o.Payment.Status = PaymentStatusFailed
	o.Payment.FailureReason = reason
	o.Status = StatusFailed
	note := "Payment failed"
	if reason != "" {
		note = "Payment failed: " + reason
	}
	o.appendTimeline(StatusFailed, note)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderPaymentFailedEvent(o, reason))

	return nil
}

// Cancel aborts an order whose payment has not yet resolved
func (o *Order) Cancel(reason string) error {
	if o.Status != StatusPending {
		return shared.ErrInvalidState
	}

	o.Status = StatusCancelled
	note := "Order cancelled"
	if reason != "" {
		note = "Order cancelled: " + reason
	}
	o.appendTimeline(StatusCancelled, note)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// MarkRefunded records a gateway-confirmed refund of a completed payment
func (o *Order) MarkRefunded(reason string) error {
	if o.Payment.Status != PaymentStatusCompleted {
		return shared.ErrInvalidState
	}

	o.Payment.Status = PaymentStatusRefunded
	o.Status = StatusCancelled
	note := "Order refunded"
	if reason != "" {
		note = "Order refunded: " + reason
	}
	o.appendTimeline(StatusCancelled, note)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderRefundedEvent(o, reason))

	return nil
}

// UpdateStatus advances the fulfillment status along the forward-only chain
// (confirmed -> processing -> shipped -> delivered). Payment outcomes and
// cancellation have their own entry points and cannot be reached here.
func (o *Order) UpdateStatus(target Status, note string) error {
	switch target {
	case StatusProcessing, StatusShipped, StatusDelivered:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Status is not a fulfillment step")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrInvalidState
	}

	from := o.Status
	o.Status = target
	if note == "" {
		note = "Status changed to " + target.String()
	}
	o.appendTimeline(target, note)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// appendTimeline adds one audit entry; each status transition calls this
// exactly once
func (o *Order) appendTimeline(status Status, note string) {
	o.Timeline = append(o.Timeline, TimelineEntry{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Status:    status,
		Note:      note,
		CreatedAt: time.Now(),
	})
}
