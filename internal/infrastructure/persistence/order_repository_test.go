package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/store/backend/internal/domain/order"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&order.Order{}, &order.Item{}, &order.TimelineEntry{}, &OrderCounter{})
	require.NoError(t, err)

	return db
}

func buildTestOrder(t *testing.T, orderNumber string, userID uuid.UUID) *order.Order {
	t.Helper()
	shipping, err := valueobject.NewShippingAddress("Ada Obi", "+2348012345678", "12 Marina Road", "Lagos", "Lagos", "", "Nigeria")
	require.NoError(t, err)
	pricing, err := order.NewPricing(decimal.NewFromInt(5000), decimal.NewFromInt(1500), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	o, err := order.NewOrder(orderNumber, userID, shipping, pricing, "paystack", order.NewPaymentReference())
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Kettle", valueobject.NewMoneyNGN(decimal.NewFromInt(2500)), 2, "")
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)

	userID := uuid.New()
	o := buildTestOrder(t, "ORD-20260830-00001", userID)
	require.NoError(t, repo.Save(ctx, o))

	t.Run("by id with items and timeline", func(t *testing.T) {
		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, found.OrderNumber)
		assert.Equal(t, userID, found.UserID)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "Kettle", found.Items[0].Name)
		require.Len(t, found.Timeline, 1)
		assert.Equal(t, order.StatusPending, found.Timeline[0].Status)
		assert.True(t, found.Pricing.Total.Equal(decimal.NewFromInt(6500)))
		assert.Equal(t, "Lagos", found.Shipping.City)
	})

	t.Run("by order number", func(t *testing.T) {
		found, err := repo.FindByOrderNumber(ctx, "ORD-20260830-00001")
		require.NoError(t, err)
		assert.Equal(t, o.ID, found.ID)
	})

	t.Run("by payment reference", func(t *testing.T) {
		found, err := repo.FindByPaymentReference(ctx, o.Payment.Reference)
		require.NoError(t, err)
		assert.Equal(t, o.ID, found.ID)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a settlement transition", func(t *testing.T) {
		db := setupOrderTestDB(t)
		repo := NewGormOrderRepository(db)

		o := buildTestOrder(t, "ORD-20260830-00002", uuid.New())
		require.NoError(t, repo.Save(ctx, o))

		require.NoError(t, o.MarkPaymentCompleted("TXN-1", time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, o))

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, found.Status)
		assert.Equal(t, order.PaymentStatusCompleted, found.Payment.Status)
		assert.Equal(t, "TXN-1", found.Payment.TransactionID)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("stale version loses", func(t *testing.T) {
		db := setupOrderTestDB(t)
		repo := NewGormOrderRepository(db)

		o := buildTestOrder(t, "ORD-20260830-00003", uuid.New())
		require.NoError(t, repo.Save(ctx, o))

		// Two copies of the same order settle concurrently. The second
		// carries a version the row no longer has.
		first, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)

		require.NoError(t, first.MarkPaymentCompleted("TXN-A", time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.MarkPaymentFailed("Declined"))
		err = repo.SaveWithLock(ctx, second)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusCompleted, found.Payment.Status)
	})
}

func TestGormOrderRepository_AppendTimeline(t *testing.T) {
	ctx := context.Background()
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)

	o := buildTestOrder(t, "ORD-20260830-00004", uuid.New())
	require.NoError(t, repo.Save(ctx, o))

	require.NoError(t, o.MarkPaymentCompleted("TXN-1", time.Now()))
	require.NoError(t, repo.SaveWithLock(ctx, o))
	entry := o.Timeline[len(o.Timeline)-1]
	require.NoError(t, repo.AppendTimeline(ctx, &entry))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, found.Timeline, 2)
	assert.Equal(t, order.StatusConfirmed, found.Timeline[1].Status)
}

func TestGormOrderRepository_NextOrderNumber(t *testing.T) {
	ctx := context.Background()
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)

	day := time.Now().Format("20060102")

	first, err := repo.NextOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%s-00001", day), first)

	second, err := repo.NextOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%s-00002", day), second)

	// counter rows are scoped by day
	var counter OrderCounter
	require.NoError(t, db.First(&counter, "day = ?", day).Error)
	assert.Equal(t, int64(2), counter.Seq)
}

func TestGormOrderRepository_Listing(t *testing.T) {
	ctx := context.Background()
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)

	userA := uuid.New()
	userB := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, buildTestOrder(t, fmt.Sprintf("ORD-20260830-1000%d", i), userA)))
	}
	require.NoError(t, repo.Save(ctx, buildTestOrder(t, "ORD-20260830-20000", userB)))

	t.Run("by user with pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2

		orders, err := repo.FindByUser(ctx, userA, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 2)

		count, err := repo.CountByUser(ctx, userA)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("all orders with status filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = order.StatusPending.String()

		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 4)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)

		filter.Filters["status"] = order.StatusConfirmed.String()
		count, err = repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}
