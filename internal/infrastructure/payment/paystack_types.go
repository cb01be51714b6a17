package payment

import "time"

// paystackEnvelope is the common wrapper around every Paystack response
type paystackEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type paystackInitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	Currency    string            `json:"currency,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type paystackInitializeResponse struct {
	paystackEnvelope
	Data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackTransactionData struct {
	ID              int64      `json:"id"`
	Status          string     `json:"status"`
	Reference       string     `json:"reference"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	GatewayResponse string     `json:"gateway_response"`
	PaidAt          *time.Time `json:"paid_at"`
	Channel         string     `json:"channel"`
}

type paystackVerifyResponse struct {
	paystackEnvelope
	Data paystackTransactionData `json:"data"`
}

// paystackWebhookPayload is the body Paystack POSTs to the webhook endpoint
type paystackWebhookPayload struct {
	Event string                  `json:"event"`
	Data  paystackTransactionData `json:"data"`
}

type paystackRefundRequest struct {
	Transaction  string `json:"transaction"`
	Amount       int64  `json:"amount,omitempty"`
	MerchantNote string `json:"merchant_note,omitempty"`
}

type paystackRefundResponse struct {
	paystackEnvelope
	Data struct {
		ID          int64  `json:"id"`
		Status      string `json:"status"`
		Transaction struct {
			Reference string `json:"reference"`
		} `json:"transaction"`
	} `json:"data"`
}
