package order

import (
	"strings"

	"github.com/google/uuid"
)

// NewPaymentReference generates the unique correlation key shared with the
// payment gateway for one checkout attempt. It is generated before the
// gateway is ever contacted.
func NewPaymentReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
