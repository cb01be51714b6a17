package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/store/backend/internal/domain/payment"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "sk_test_0123456789abcdef"

func TestPaystackConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *PaystackConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &PaystackConfig{SecretKey: testSecretKey},
			wantErr: nil,
		},
		{
			name:    "missing secret key",
			config:  &PaystackConfig{},
			wantErr: ErrPaystackMissingSecretKey,
		},
		{
			name:    "malformed secret key",
			config:  &PaystackConfig{SecretKey: "pk_test_wrongkind"},
			wantErr: ErrPaystackInvalidSecretKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*PaystackAdapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewPaystackAdapter(&PaystackConfig{
		SecretKey: testSecretKey,
		BaseURL:   server.URL,
	})
	require.NoError(t, err)
	return adapter, server
}

func TestPaystackAdapter_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("converts amount to minor units and returns handle", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			assert.Equal(t, "Bearer "+testSecretKey, r.Header.Get("Authorization"))

			var body paystackInitializeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada@example.com", body.Email)
			assert.Equal(t, int64(850000), body.Amount) // NGN 8500 in kobo
			assert.Equal(t, "PAY-ABC", body.Reference)
			assert.Equal(t, "NGN", body.Currency)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Authorization URL created",
				"data": map[string]string{
					"authorization_url": "https://checkout.paystack.com/xyz",
					"access_code":       "xyz",
					"reference":         "PAY-ABC",
				},
			})
		})

		resp, err := adapter.Initialize(ctx, payment.InitializeRequest{
			Email:     "ada@example.com",
			Amount:    valueobject.NewMoneyNGN(decimal.NewFromInt(8500)),
			Reference: "PAY-ABC",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://checkout.paystack.com/xyz", resp.AuthorizationURL)
		assert.Equal(t, "xyz", resp.AccessCode)
		assert.Equal(t, "PAY-ABC", resp.Reference)
	})

	t.Run("rejected initialize surfaces the gateway message", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  false,
				"message": "Invalid email address",
			})
		})

		_, err := adapter.Initialize(ctx, payment.InitializeRequest{
			Email:     "not-an-email",
			Amount:    valueobject.NewMoneyNGN(decimal.NewFromInt(100)),
			Reference: "PAY-ABC",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email address")
	})
}

func TestPaystackAdapter_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("maps a successful charge", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/PAY-ABC", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Verification successful",
				"data": map[string]interface{}{
					"id":               4099260516,
					"status":           "success",
					"reference":        "PAY-ABC",
					"amount":           850000,
					"currency":         "NGN",
					"gateway_response": "Successful",
					"channel":          "card",
				},
			})
		})

		resp, err := adapter.Verify(ctx, "PAY-ABC")

		require.NoError(t, err)
		assert.Equal(t, payment.TransactionSuccess, resp.Status)
		assert.Equal(t, "PAY-ABC", resp.Reference)
		assert.Equal(t, "4099260516", resp.TransactionID)
		assert.True(t, resp.Amount.Amount().Equal(decimal.NewFromInt(8500)))
		assert.Equal(t, "card", resp.Channel)
	})

	t.Run("maps terminal and in-flight charges", func(t *testing.T) {
		for gatewayStatus, want := range map[string]payment.TransactionStatus{
			"abandoned": payment.TransactionAbandoned,
			"failed":    payment.TransactionFailed,
			// Anything non-terminal must stay pending. A charge still in
			// flight, or a status coined after us, never settles as failed.
			"pending":    payment.TransactionPending,
			"ongoing":    payment.TransactionPending,
			"queued":     payment.TransactionPending,
			"processing": payment.TransactionPending,
			"reversed":   payment.TransactionPending,
		} {
			adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status":  true,
					"message": "Verification successful",
					"data": map[string]interface{}{
						"status":    gatewayStatus,
						"reference": "PAY-ABC",
						"amount":    850000,
						"currency":  "NGN",
					},
				})
			})

			resp, err := adapter.Verify(ctx, "PAY-ABC")
			require.NoError(t, err)
			assert.Equal(t, want, resp.Status)
		}
	})

	t.Run("server error is returned", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := adapter.Verify(ctx, "PAY-ABC")
		require.Error(t, err)
	})
}

func signWebhook(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackAdapter_VerifyWebhook(t *testing.T) {
	adapter, err := NewPaystackAdapter(&PaystackConfig{SecretKey: testSecretKey})
	require.NoError(t, err)

	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"id": 302961,
			"status": "success",
			"reference": "PAY-ABC",
			"amount": 850000,
			"currency": "NGN",
			"gateway_response": "Approved"
		}
	}`)

	t.Run("valid signature parses the event", func(t *testing.T) {
		event, err := adapter.VerifyWebhook(payload, signWebhook(testSecretKey, payload))

		require.NoError(t, err)
		assert.Equal(t, "charge.success", event.Event)
		assert.Equal(t, "PAY-ABC", event.Reference)
		assert.Equal(t, "302961", event.TransactionID)
		assert.True(t, event.Amount.Amount().Equal(decimal.NewFromInt(8500)))
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		_, err := adapter.VerifyWebhook(payload, signWebhook("sk_test_otherkey", payload))

		assert.ErrorIs(t, err, shared.ErrInvalidSignature)
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		signature := signWebhook(testSecretKey, payload)
		tampered := append([]byte{}, payload...)
		tampered[len(tampered)-2] = ' '

		_, err := adapter.VerifyWebhook(tampered, signature)

		assert.ErrorIs(t, err, shared.ErrInvalidSignature)
	})
}

func TestPaystackAdapter_CreateRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("full refund omits the amount", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/refund", r.URL.Path)

			var body paystackRefundRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "PAY-ABC", body.Transaction)
			assert.Zero(t, body.Amount)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Refund has been queued for processing",
				"data": map[string]interface{}{
					"id":          12345,
					"status":      "pending",
					"transaction": map[string]string{"reference": "PAY-ABC"},
				},
			})
		})

		resp, err := adapter.CreateRefund(ctx, payment.RefundRequest{Reference: "PAY-ABC", Reason: "Damaged item"})

		require.NoError(t, err)
		assert.Equal(t, payment.RefundPending, resp.Status)
		assert.Equal(t, "12345", resp.RefundID)
		assert.Equal(t, "PAY-ABC", resp.Reference)
	})

	t.Run("partial refund sends minor units", func(t *testing.T) {
		amount := valueobject.NewMoneyNGN(decimal.NewFromInt(2000))
		adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			var body paystackRefundRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(200000), body.Amount)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Refund has been queued for processing",
				"data": map[string]interface{}{
					"id":     12346,
					"status": "processed",
					"transaction": map[string]string{
						"reference": "PAY-ABC",
					},
				},
			})
		})

		resp, err := adapter.CreateRefund(ctx, payment.RefundRequest{
			Reference: "PAY-ABC",
			Amount:    &amount,
		})

		require.NoError(t, err)
		assert.Equal(t, payment.RefundProcessed, resp.Status)
	})

	t.Run("gateway rejection is an error", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  false,
				"message": "Transaction cannot be refunded",
			})
		})

		_, err := adapter.CreateRefund(ctx, payment.RefundRequest{Reference: "PAY-ABC"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be refunded")
	})
}
