package payment

import (
	"context"
	"time"

	"github.com/store/backend/internal/domain/shared/valueobject"
)

// TransactionStatus is the gateway's view of a charge
type TransactionStatus string

const (
	TransactionSuccess   TransactionStatus = "success"
	TransactionFailed    TransactionStatus = "failed"
	TransactionAbandoned TransactionStatus = "abandoned"

	// TransactionPending covers every in-flight or unrecognized gateway
	// status (pending, ongoing, queued, processing). It must never settle
	// an order in either direction.
	TransactionPending TransactionStatus = "pending"
)

// Webhook event types the settlement processor understands. Anything else is
// acknowledged and ignored.
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// InitializeRequest asks the gateway to open a charge for an order.
// The reference is generated by checkout before the gateway is contacted.
type InitializeRequest struct {
	Email     string
	Amount    valueobject.Money
	Reference string
	Metadata  map[string]string
}

// InitializeResponse carries the gateway's hosted-payment handle
type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResponse is the gateway's authoritative answer for one reference.
// Amount is converted back from the gateway's minor currency unit at the
// adapter boundary.
type VerifyResponse struct {
	Reference       string
	Status          TransactionStatus
	Amount          valueobject.Money
	GatewayResponse string
	TransactionID   string
	PaidAt          *time.Time
	Channel         string
}

// WebhookEvent is a parsed, signature-verified gateway notification
type WebhookEvent struct {
	Event           string
	Reference       string
	TransactionID   string
	GatewayResponse string
	Amount          valueobject.Money
	PaidAt          *time.Time
}

// RefundRequest asks the gateway to return funds for a settled charge.
// A nil Amount requests a full refund.
type RefundRequest struct {
	Reference string
	Amount    *valueobject.Money
	Reason    string
}

// RefundStatus is the gateway's view of a refund request
type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
)

// RefundResponse reports the outcome of a refund request
type RefundResponse struct {
	Reference       string
	RefundID        string
	Status          RefundStatus
	GatewayResponse string
}

// Gateway is the port to the external payment provider. The concrete
// adapter lives in the infrastructure layer; amounts cross this boundary in
// major units and are converted to the gateway's minor unit inside the
// adapter only.
type Gateway interface {
	// Initialize opens a charge and returns the hosted-payment handle
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)

	// Verify queries the authoritative status of a charge by reference
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)

	// VerifyWebhook authenticates a pushed notification (HMAC over the raw
	// payload with the shared secret) and parses it. Returns
	// shared.ErrInvalidSignature when the signature does not match.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)

	// CreateRefund initiates a refund for a completed charge. Automated
	// refunds are not guaranteed in all regions; callers must degrade to
	// manual instructions on failure.
	CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error)
}
