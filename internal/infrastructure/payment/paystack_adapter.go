package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/store/backend/internal/domain/payment"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
)

const (
	paystackInitializePath = "/transaction/initialize"
	paystackVerifyPath     = "/transaction/verify/%s"
	paystackRefundPath     = "/refund"
)

// PaystackAdapter implements the payment.Gateway port against the Paystack
// API. Amounts cross the HTTP boundary in the minor currency unit (kobo for
// NGN); the conversion lives here and nowhere else.
type PaystackAdapter struct {
	config     *PaystackConfig
	httpClient *http.Client
}

// NewPaystackAdapter creates a new Paystack adapter
func NewPaystackAdapter(config *PaystackConfig) (*PaystackAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PaystackAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Initialize opens a charge and returns the hosted-payment handle
func (a *PaystackAdapter) Initialize(ctx context.Context, req payment.InitializeRequest) (*payment.InitializeResponse, error) {
	body := paystackInitializeRequest{
		Email:       req.Email,
		Amount:      req.Amount.MinorUnits(),
		Reference:   req.Reference,
		Currency:    string(req.Amount.Currency()),
		CallbackURL: a.config.CallbackURL,
		Metadata:    req.Metadata,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, paystackInitializePath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var resp paystackInitializeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: initialize rejected: %s", resp.Message)
	}

	return &payment.InitializeResponse{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

// Verify queries the authoritative status of a charge by reference
func (a *PaystackAdapter) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf(paystackVerifyPath, reference), nil)
	if err != nil {
		return nil, err
	}

	var resp paystackVerifyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: verify rejected: %s", resp.Message)
	}

	return &payment.VerifyResponse{
		Reference:       resp.Data.Reference,
		Status:          mapPaystackStatus(resp.Data.Status),
		Amount:          minorAmount(resp.Data.Amount, resp.Data.Currency),
		GatewayResponse: resp.Data.GatewayResponse,
		TransactionID:   strconv.FormatInt(resp.Data.ID, 10),
		PaidAt:          resp.Data.PaidAt,
		Channel:         resp.Data.Channel,
	}, nil
}

// VerifyWebhook authenticates a pushed notification and parses it.
// Paystack signs the raw body with HMAC-SHA512 under the secret key and
// sends the hex digest in the x-paystack-signature header.
func (a *PaystackAdapter) VerifyWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	mac := hmac.New(sha512.New, []byte(a.config.SecretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, shared.ErrInvalidSignature
	}

	var event paystackWebhookPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse webhook payload: %w", err)
	}

	return &payment.WebhookEvent{
		Event:           event.Event,
		Reference:       event.Data.Reference,
		TransactionID:   strconv.FormatInt(event.Data.ID, 10),
		GatewayResponse: event.Data.GatewayResponse,
		Amount:          minorAmount(event.Data.Amount, event.Data.Currency),
		PaidAt:          event.Data.PaidAt,
	}, nil
}

// CreateRefund initiates a refund for a completed charge
func (a *PaystackAdapter) CreateRefund(ctx context.Context, req payment.RefundRequest) (*payment.RefundResponse, error) {
	body := paystackRefundRequest{
		Transaction:  req.Reference,
		MerchantNote: req.Reason,
	}
	if req.Amount != nil {
		body.Amount = req.Amount.MinorUnits()
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, paystackRefundPath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var resp paystackRefundResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: refund rejected: %s", resp.Message)
	}

	return &payment.RefundResponse{
		Reference:       resp.Data.Transaction.Reference,
		RefundID:        strconv.FormatInt(resp.Data.ID, 10),
		Status:          mapPaystackRefundStatus(resp.Data.Status),
		GatewayResponse: resp.Message,
	}, nil
}

// doRequest executes an authenticated API call and returns the raw body
func (a *PaystackAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("paystack: server error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// mapPaystackStatus maps the transaction status strings to the domain's
// view. Only the three terminal statuses settle; everything else (pending,
// ongoing, queued, processing, or a status added after us) stays pending so
// an in-flight charge is never marked failed.
func mapPaystackStatus(status string) payment.TransactionStatus {
	switch status {
	case "success":
		return payment.TransactionSuccess
	case "failed":
		return payment.TransactionFailed
	case "abandoned":
		return payment.TransactionAbandoned
	default:
		return payment.TransactionPending
	}
}

func mapPaystackRefundStatus(status string) payment.RefundStatus {
	switch status {
	case "processed":
		return payment.RefundProcessed
	case "pending", "processing":
		return payment.RefundPending
	default:
		return payment.RefundFailed
	}
}

// minorAmount converts a gateway amount in minor units back to Money
func minorAmount(amount int64, currency string) valueobject.Money {
	cur := valueobject.Currency(currency)
	if currency == "" {
		cur = valueobject.DefaultCurrency
	}
	return valueobject.FromMinorUnits(amount, cur)
}

// Ensure PaystackAdapter implements the Gateway port
var _ payment.Gateway = (*PaystackAdapter)(nil)
