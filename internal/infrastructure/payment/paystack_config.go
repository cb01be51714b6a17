package payment

import (
	"errors"
	"strings"
)

const defaultPaystackBaseURL = "https://api.paystack.co"

// PaystackConfig contains configuration for the Paystack API
type PaystackConfig struct {
	// SecretKey is the secret API key, also used to sign webhooks
	SecretKey string
	// BaseURL overrides the API endpoint, mainly for tests
	BaseURL string
	// CallbackURL is where Paystack redirects the buyer after payment
	CallbackURL string
}

// Errors for configuration validation
var (
	ErrPaystackMissingSecretKey = errors.New("paystack: missing secret key")
	ErrPaystackInvalidSecretKey = errors.New("paystack: secret key must start with sk_")
)

// Validate validates the configuration
func (c *PaystackConfig) Validate() error {
	if c.SecretKey == "" {
		return ErrPaystackMissingSecretKey
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") {
		return ErrPaystackInvalidSecretKey
	}
	return nil
}

// APIBaseURL returns the configured base URL or the production default
func (c *PaystackConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return defaultPaystackBaseURL
}
