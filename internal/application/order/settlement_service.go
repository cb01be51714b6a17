package order

import (
	"context"
	"errors"
	"time"

	"github.com/store/backend/internal/domain/cart"
	"github.com/store/backend/internal/domain/order"
	"github.com/store/backend/internal/domain/payment"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

const manualRefundInstructions = "Automated refund was not accepted by the gateway. " +
	"Process the refund manually from the gateway dashboard and reconcile the order afterwards."

// SettlementService is the only writer of terminal payment outcomes. The
// synchronous verify call and the asynchronous webhook both converge on the
// same idempotent transition: re-delivered events and verify/webhook races
// settle an order exactly once.
type SettlementService struct {
	scope     TransactionScope
	orderRepo order.Repository
	cartStore cart.Store
	gateway   payment.Gateway
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	scope TransactionScope,
	orderRepo order.Repository,
	cartStore cart.Store,
	gateway payment.Gateway,
) *SettlementService {
	return &SettlementService{
		scope:     scope,
		orderRepo: orderRepo,
		cartStore: cartStore,
		gateway:   gateway,
	}
}

// VerifyPayment asks the gateway for the authoritative status of a reference
// and applies the outcome immediately
func (s *SettlementService) VerifyPayment(ctx context.Context, reference string) (*OrderResponse, error) {
	v, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, shared.NewDomainError("GATEWAY_UNAVAILABLE", err.Error())
	}

	var o *order.Order
	switch v.Status {
	case payment.TransactionSuccess:
		paidAt := time.Now()
		if v.PaidAt != nil {
			paidAt = *v.PaidAt
		}
		o, err = s.applySuccess(ctx, reference, v.TransactionID, paidAt)
	case payment.TransactionFailed, payment.TransactionAbandoned:
		o, err = s.applyFailure(ctx, reference, v.GatewayResponse)
	default:
		// In-flight charge. Nothing settles until the gateway reports a
		// terminal status.
		return nil, shared.NewDomainError("PAYMENT_PENDING", "Charge has not settled yet")
	}
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// HandleWebhook authenticates and applies an asynchronous gateway
// notification. Unknown event types are accepted and ignored; the HTTP
// boundary always acknowledges with success so the gateway never
// retry-storms on our own failures.
func (s *SettlementService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Event {
	case payment.EventChargeSuccess:
		paidAt := time.Now()
		if event.PaidAt != nil {
			paidAt = *event.PaidAt
		}
		_, err = s.applySuccess(ctx, event.Reference, event.TransactionID, paidAt)
		return err
	case payment.EventChargeFailed:
		_, err = s.applyFailure(ctx, event.Reference, event.GatewayResponse)
		return err
	default:
		// Not an event we settle on. Acknowledged, never an error.
		return nil
	}
}

// applySuccess settles a successful charge: payment completed, order
// confirmed, reservations converted into permanent deductions. Applying the
// same outcome twice is a no-op returning the already-settled order.
func (s *SettlementService) applySuccess(ctx context.Context, reference, transactionID string, paidAt time.Time) (*order.Order, error) {
	var settled *order.Order
	var applied bool

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByPaymentReference(ctx, reference)
		if err != nil {
			return err
		}

		// Idempotency guard: a settled payment outcome is never re-applied
		// and never reverted.
		if o.Payment.Status.IsTerminal() {
			settled = o
			return nil
		}

		if err := o.MarkPaymentCompleted(transactionID, paidAt); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}
		entry := o.Timeline[len(o.Timeline)-1]
		if err := repos.Orders().AppendTimeline(ctx, &entry); err != nil {
			return err
		}

		for idx := range o.Items {
			if err := repos.Stocks().Deduct(ctx, o.Items[idx].ProductID, o.Items[idx].Quantity); err != nil {
				return err
			}
		}

		settled = o
		applied = true
		return nil
	})
	if err != nil {
		return s.resolveSettlementConflict(ctx, reference, err)
	}

	if applied {
		// Best effort: the settlement is committed, a cart-service hiccup
		// must not undo it.
		_ = s.cartStore.Clear(ctx, settled.UserID)
	}

	return settled, nil
}

// applyFailure settles a failed charge: payment failed, order failed,
// reservations returned to the available pool. Idempotent like applySuccess.
func (s *SettlementService) applyFailure(ctx context.Context, reference, reason string) (*order.Order, error) {
	var settled *order.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByPaymentReference(ctx, reference)
		if err != nil {
			return err
		}

		if o.Payment.Status.IsTerminal() {
			settled = o
			return nil
		}

		if err := o.MarkPaymentFailed(reason); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}
		entry := o.Timeline[len(o.Timeline)-1]
		if err := repos.Orders().AppendTimeline(ctx, &entry); err != nil {
			return err
		}

		for idx := range o.Items {
			if err := repos.Stocks().Release(ctx, o.Items[idx].ProductID, o.Items[idx].Quantity); err != nil {
				return err
			}
		}

		settled = o
		return nil
	})
	if err != nil {
		return s.resolveSettlementConflict(ctx, reference, err)
	}

	return settled, nil
}

// resolveSettlementConflict absorbs the race between a verify call and an
// overlapping webhook for the same reference: whoever lost the optimistic
// write re-reads the order and treats an already-settled outcome as a no-op.
func (s *SettlementService) resolveSettlementConflict(ctx context.Context, reference string, cause error) (*order.Order, error) {
	if !errors.Is(cause, shared.ErrConcurrencyConflict) {
		return nil, cause
	}

	o, err := s.orderRepo.FindByPaymentReference(ctx, reference)
	if err != nil {
		return nil, cause
	}
	if o.Payment.Status.IsTerminal() {
		return o, nil
	}
	return nil, cause
}

// CancelOrder aborts an order whose payment has not resolved yet, returning
// its reservations to the pool. Pass uuid.Nil as userID for admin calls;
// buyers can only cancel their own orders.
func (s *SettlementService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID, reason string) (*OrderResponse, error) {
	var cancelled *order.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if userID != uuid.Nil && o.UserID != userID {
			return shared.ErrNotFound
		}

		if err := o.Cancel(reason); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}
		entry := o.Timeline[len(o.Timeline)-1]
		if err := repos.Orders().AppendTimeline(ctx, &entry); err != nil {
			return err
		}

		for idx := range o.Items {
			if err := repos.Stocks().Release(ctx, o.Items[idx].ProductID, o.Items[idx].Quantity); err != nil {
				return err
			}
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(cancelled)
	return &response, nil
}

// UpdateStatus advances the fulfillment status (admin)
func (s *SettlementService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.Status(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	var updated *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := o.UpdateStatus(target, req.Note); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}
		entry := o.Timeline[len(o.Timeline)-1]
		if err := repos.Orders().AppendTimeline(ctx, &entry); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(updated)
	return &response, nil
}

// InitiateRefund asks the gateway to return funds for a confirmed order.
// Duplicate refund requests are no-ops; a gateway that cannot process the
// refund automatically degrades to manual-processing instructions instead of
// a hard error.
func (s *SettlementService) InitiateRefund(ctx context.Context, orderID uuid.UUID, req RefundRequest) (*RefundResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Payment.Status == order.PaymentStatusRefunded {
		response := ToOrderResponse(o)
		return &RefundResponse{Order: &response, AlreadyRefunded: true}, nil
	}
	if o.Payment.Status != order.PaymentStatusCompleted {
		return nil, shared.ErrInvalidState
	}

	var amount *valueobject.Money
	if req.Amount != nil {
		m := valueobject.NewMoneyNGN(*req.Amount)
		amount = &m
	}

	resp, err := s.gateway.CreateRefund(ctx, payment.RefundRequest{
		Reference: o.Payment.Reference,
		Amount:    amount,
		Reason:    req.Reason,
	})
	if err != nil || resp.Status == payment.RefundFailed {
		return &RefundResponse{RequiresManual: true, Instructions: manualRefundInstructions}, nil
	}

	var refunded *order.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Payment.Status == order.PaymentStatusRefunded {
			refunded = current
			return nil
		}

		if err := current.MarkRefunded(req.Reason); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, current); err != nil {
			return err
		}
		entry := current.Timeline[len(current.Timeline)-1]
		if err := repos.Orders().AppendTimeline(ctx, &entry); err != nil {
			return err
		}

		refunded = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(refunded)
	return &RefundResponse{Order: &response}, nil
}
