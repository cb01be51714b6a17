package order

import (
	"testing"
	"time"

	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShippingAddress(t *testing.T) valueobject.ShippingAddress {
	t.Helper()
	addr, err := valueobject.NewShippingAddress("Ada Obi", "+2348012345678", "12 Marina Road", "Lagos", "Lagos", "101001", "Nigeria")
	require.NoError(t, err)
	return addr
}

func testPricing(t *testing.T, subtotal, shipping int64) Pricing {
	t.Helper()
	pricing, err := NewPricing(decimal.NewFromInt(subtotal), decimal.NewFromInt(shipping), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	return pricing
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("ORD-20260830-00001", uuid.New(), testShippingAddress(t), testPricing(t, 3000, 0), "paystack", "PAY-"+uuid.NewString())
	require.NoError(t, err)
	return o
}

func TestNewPricing(t *testing.T) {
	t.Run("computes total from components", func(t *testing.T) {
		p, err := NewPricing(decimal.NewFromInt(3000), decimal.NewFromInt(500), decimal.NewFromInt(100), decimal.NewFromInt(200))
		require.NoError(t, err)
		assert.True(t, p.Total.Equal(decimal.NewFromInt(3400)))
		assert.True(t, p.Consistent())
	})

	t.Run("rejects negative components", func(t *testing.T) {
		_, err := NewPricing(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects discount exceeding the rest", func(t *testing.T) {
		_, err := NewPricing(decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.NewFromInt(200))
		assert.Error(t, err)
	})
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with initial timeline entry", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.Payment.Status)
		require.Len(t, o.Timeline, 1)
		assert.Equal(t, StatusPending, o.Timeline[0].Status)
		assert.Equal(t, "Order created", o.Timeline[0].Note)
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("requires order number", func(t *testing.T) {
		_, err := NewOrder("", uuid.New(), testShippingAddress(t), testPricing(t, 100, 0), "paystack", "PAY-X")
		assert.Error(t, err)
	})

	t.Run("requires payment reference", func(t *testing.T) {
		_, err := NewOrder("ORD-20260830-00002", uuid.New(), testShippingAddress(t), testPricing(t, 100, 0), "paystack", "")
		assert.Error(t, err)
	})

	t.Run("rejects inconsistent pricing", func(t *testing.T) {
		pricing := Pricing{
			Subtotal:    decimal.NewFromInt(3000),
			ShippingFee: decimal.NewFromInt(500),
			Tax:         decimal.Zero,
			Discount:    decimal.Zero,
			Total:       decimal.NewFromInt(9999),
		}
		_, err := NewOrder("ORD-20260830-00003", uuid.New(), testShippingAddress(t), pricing, "paystack", "PAY-X")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICING", domainErr.Code)
	})
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("adds snapshot line and sums subtotal", func(t *testing.T) {
		o := newTestOrder(t)
		productID := uuid.New()

		item, err := o.AddItem(productID, "Indigo Tote", valueobject.NewMoneyNGN(decimal.NewFromInt(1000)), 3, "https://cdn.example/tote.jpg")
		require.NoError(t, err)

		assert.Equal(t, productID, item.ProductID)
		assert.True(t, item.LineTotal().Equal(decimal.NewFromInt(3000)))
		assert.True(t, o.ItemsSubtotal().Equal(decimal.NewFromInt(3000)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.AddItem(uuid.New(), "Indigo Tote", valueobject.NewMoneyNGN(decimal.NewFromInt(1000)), 0, "")
		assert.Error(t, err)
	})

	t.Run("rejects items on confirmed order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_1", time.Now()))

		_, err := o.AddItem(uuid.New(), "Indigo Tote", valueobject.NewMoneyNGN(decimal.NewFromInt(1000)), 1, "")
		assert.Error(t, err)
	})
}

func TestOrder_MarkPaymentCompleted(t *testing.T) {
	t.Run("confirms order and records transaction", func(t *testing.T) {
		o := newTestOrder(t)
		paidAt := time.Now()

		err := o.MarkPaymentCompleted("txn_123", paidAt)
		require.NoError(t, err)

		assert.Equal(t, StatusConfirmed, o.Status)
		assert.Equal(t, PaymentStatusCompleted, o.Payment.Status)
		assert.Equal(t, "txn_123", o.Payment.TransactionID)
		require.NotNil(t, o.Payment.PaidAt)
		assert.Equal(t, 2, o.Version)
		require.Len(t, o.Timeline, 2)
		assert.Equal(t, StatusConfirmed, o.Timeline[1].Status)
	})

	t.Run("re-applying a settled outcome fails", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_123", time.Now()))

		err := o.MarkPaymentCompleted("txn_123", time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Len(t, o.Timeline, 2)
	})

	t.Run("cannot complete a failed payment", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentFailed("card declined"))

		err := o.MarkPaymentCompleted("txn_123", time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestOrder_MarkPaymentFailed(t *testing.T) {
	t.Run("fails order and keeps gateway reason", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.MarkPaymentFailed("insufficient funds")
		require.NoError(t, err)

		assert.Equal(t, StatusFailed, o.Status)
		assert.Equal(t, PaymentStatusFailed, o.Payment.Status)
		assert.Equal(t, "insufficient funds", o.Payment.FailureReason)
		require.Len(t, o.Timeline, 2)
		assert.Contains(t, o.Timeline[1].Note, "insufficient funds")
	})

	t.Run("re-applying a failure is rejected", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentFailed("declined"))

		err := o.MarkPaymentFailed("declined")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancels a pending order", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Cancel("changed my mind")
		require.NoError(t, err)

		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, PaymentStatusPending, o.Payment.Status)
		require.Len(t, o.Timeline, 2)
	})

	t.Run("cannot cancel after payment resolved", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_1", time.Now()))

		err := o.Cancel("too late")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestOrder_MarkRefunded(t *testing.T) {
	t.Run("refunds a completed payment", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_1", time.Now()))

		err := o.MarkRefunded("damaged in transit")
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusRefunded, o.Payment.Status)
		assert.Equal(t, StatusCancelled, o.Status)
		require.Len(t, o.Timeline, 3)
		assert.Contains(t, o.Timeline[2].Note, "damaged in transit")
	})

	t.Run("cannot refund an unsettled payment", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.MarkRefunded("nope")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("cannot refund twice", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_1", time.Now()))
		require.NoError(t, o.MarkRefunded("first"))

		err := o.MarkRefunded("second")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestOrder_UpdateStatus(t *testing.T) {
	t.Run("walks the fulfillment chain", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_1", time.Now()))

		require.NoError(t, o.UpdateStatus(StatusProcessing, ""))
		require.NoError(t, o.UpdateStatus(StatusShipped, "handed to courier"))
		require.NoError(t, o.UpdateStatus(StatusDelivered, ""))

		assert.Equal(t, StatusDelivered, o.Status)
		// created + confirmed + three fulfillment steps
		assert.Len(t, o.Timeline, 5)
	})

	t.Run("rejects skipping steps", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_1", time.Now()))

		err := o.UpdateStatus(StatusDelivered, "")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("rejects moves out of terminal states", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(""))

		err := o.UpdateStatus(StatusProcessing, "")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("cannot cancel a paid order through fulfillment updates", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkPaymentCompleted("txn_1", time.Now()))

		err := o.UpdateStatus(StatusCancelled, "")
		require.Error(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.Equal(t, PaymentStatusCompleted, o.Payment.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.UpdateStatus(Status("teleported"), "")
		assert.Error(t, err)
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusProcessing, true},
		{StatusConfirmed, StatusCancelled, false},
		{StatusConfirmed, StatusPending, false},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusFailed, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.from.String()+"_to_"+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}
