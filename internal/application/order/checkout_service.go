package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/store/backend/internal/domain/cart"
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/order"
	"github.com/store/backend/internal/domain/payment"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethodPaystack is the only payment method currently offered
const PaymentMethodPaystack = "paystack"

// PricingPolicy holds the checkout pricing rules. Tax and discounts are
// zero by policy; shipping is free above the threshold, otherwise flat.
type PricingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// ShippingFor returns the shipping fee for a given subtotal
func (p PricingPolicy) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

// CheckoutService orchestrates the atomic transition from cart snapshot to
// reserved inventory to pending order. Reservations and the order insert are
// indivisible: any failure before commit rolls back every reservation made
// in the attempt.
type CheckoutService struct {
	scope     TransactionScope
	orderRepo order.Repository
	cartStore cart.Store
	gateway   payment.Gateway
	policy    PricingPolicy
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	scope TransactionScope,
	orderRepo order.Repository,
	cartStore cart.Store,
	gateway payment.Gateway,
	policy PricingPolicy,
) *CheckoutService {
	return &CheckoutService{
		scope:     scope,
		orderRepo: orderRepo,
		cartStore: cartStore,
		gateway:   gateway,
		policy:    policy,
	}
}

// CreateOrder executes checkout for the buyer's current cart snapshot.
// Prices are snapshotted from the live catalog at this moment, not from
// anything the cart may have displayed earlier.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	snapshot, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	shipping, err := valueobject.NewShippingAddress(
		req.Shipping.FullName,
		req.Shipping.Phone,
		req.Shipping.Street,
		req.Shipping.City,
		req.Shipping.State,
		req.Shipping.PostalCode,
		req.Shipping.Country,
	)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	var created *order.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		productIDs := make([]uuid.UUID, 0, len(snapshot.Lines))
		for _, line := range snapshot.Lines {
			productIDs = append(productIDs, line.ProductID)
		}

		products, err := repos.Products().FindByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for idx := range products {
			byID[products[idx].ID] = &products[idx]
		}

		for _, line := range snapshot.Lines {
			product, ok := byID[line.ProductID]
			if !ok || !product.Active {
				return shared.ErrProductUnavailable
			}
			if line.Quantity <= 0 {
				return shared.NewDomainError("INVALID_QUANTITY", "Cart line quantity must be positive")
			}
		}

		// Reserve every line. The conditional update enforces availability;
		// a failure here aborts the transaction and undoes the reservations
		// already applied in this batch.
		for _, line := range snapshot.Lines {
			if err := repos.Stocks().Reserve(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						fmt.Sprintf("Insufficient stock for %q", byID[line.ProductID].Name))
				}
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrProductUnavailable
				}
				return err
			}
		}

		subtotal := decimal.Zero
		for _, line := range snapshot.Lines {
			product := byID[line.ProductID]
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(line.Quantity)))
		}

		pricing, err := order.NewPricing(subtotal, s.policy.ShippingFor(subtotal), decimal.Zero, decimal.Zero)
		if err != nil {
			return err
		}

		orderNumber, err := repos.Orders().NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(orderNumber, userID, shipping, pricing, PaymentMethodPaystack, order.NewPaymentReference())
		if err != nil {
			return err
		}

		for _, line := range snapshot.Lines {
			product := byID[line.ProductID]
			if _, err := o.AddItem(line.ProductID, product.Name, product.PriceMoney(), line.Quantity, product.ImageURL); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(created)
	return &response, nil
}

// InitializePayment opens a charge with the gateway for a pending order and
// returns the hosted-payment handle. The payment reference already exists on
// the order; the gateway is only contacted here.
func (s *CheckoutService) InitializePayment(ctx context.Context, userID uuid.UUID, req InitializePaymentRequest) (*InitializePaymentResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	// Another buyer's order is indistinguishable from a missing one.
	if o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	if o.Payment.Status != order.PaymentStatusPending || o.Status != order.StatusPending {
		return nil, shared.ErrInvalidState
	}

	resp, err := s.gateway.Initialize(ctx, payment.InitializeRequest{
		Email:     req.Email,
		Amount:    o.Pricing.TotalMoney(),
		Reference: o.Payment.Reference,
		Metadata: map[string]string{
			"order_id":     o.ID.String(),
			"order_number": o.OrderNumber,
		},
	})
	if err != nil {
		return nil, shared.NewDomainError("GATEWAY_UNAVAILABLE", err.Error())
	}

	return &InitializePaymentResponse{
		AuthorizationURL: resp.AuthorizationURL,
		AccessCode:       resp.AccessCode,
		Reference:        resp.Reference,
	}, nil
}
