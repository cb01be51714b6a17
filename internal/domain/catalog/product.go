package catalog

import (
	"time"

	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry that can be purchased.
// Orders snapshot the fields they need at checkout time, so later edits to a
// product never change historical orders.
type Product struct {
	shared.BaseAggregateRoot
	Name     string          `gorm:"size:255;not null"`
	Slug     string          `gorm:"size:255;uniqueIndex"`
	Price    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ImageURL string          `gorm:"size:512"`
	Active   bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, slug string, price valueobject.Money, imageURL string) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Price:             price.Amount(),
		ImageURL:          imageURL,
		Active:            true,
	}, nil
}

// PriceMoney returns the current catalog price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(p.Price)
}

// UpdatePrice changes the catalog price. Existing orders keep the price they
// snapshotted at checkout.
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Activate puts the product back on sale
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}
