package valueobject

import (
	"errors"
	"strings"
)

// ShippingAddress is a value object holding the delivery destination for an
// order. Fields are exported so the aggregate can embed it as GORM columns,
// but instances should only be built through NewShippingAddress.
type ShippingAddress struct {
	FullName   string `gorm:"size:120"`
	Phone      string `gorm:"size:32"`
	Street     string `gorm:"size:255"`
	City       string `gorm:"size:120"`
	State      string `gorm:"size:120"`
	PostalCode string `gorm:"size:16"`
	Country    string `gorm:"size:100"`
}

// NewShippingAddress creates a validated shipping address.
// Full name, street, city, state and country are required.
func NewShippingAddress(fullName, phone, street, city, state, postalCode, country string) (ShippingAddress, error) {
	addr := ShippingAddress{
		FullName:   strings.TrimSpace(fullName),
		Phone:      strings.TrimSpace(phone),
		Street:     strings.TrimSpace(street),
		City:       strings.TrimSpace(city),
		State:      strings.TrimSpace(state),
		PostalCode: strings.TrimSpace(postalCode),
		Country:    strings.TrimSpace(country),
	}
	if addr.Country == "" {
		addr.Country = "Nigeria"
	}

	if addr.FullName == "" {
		return ShippingAddress{}, errors.New("recipient name cannot be empty")
	}
	if len(addr.FullName) > 120 {
		return ShippingAddress{}, errors.New("recipient name cannot exceed 120 characters")
	}
	if addr.Street == "" {
		return ShippingAddress{}, errors.New("street cannot be empty")
	}
	if addr.City == "" {
		return ShippingAddress{}, errors.New("city cannot be empty")
	}
	if addr.State == "" {
		return ShippingAddress{}, errors.New("state cannot be empty")
	}
	return addr, nil
}

// IsEmpty returns true if the address has no meaningful fields set
func (a ShippingAddress) IsEmpty() bool {
	return a.FullName == "" && a.Street == "" && a.City == "" && a.State == ""
}

// String returns the complete formatted address
func (a ShippingAddress) String() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 6)
	for _, p := range []string{a.FullName, a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
