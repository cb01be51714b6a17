package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/store/backend/internal/domain/order"
	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderCounter is the per-day sequence row behind order number generation.
// One row per calendar day, upserted atomically.
type OrderCounter struct {
	Day string `gorm:"primaryKey;size:8"`
	Seq int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderCounter) TableName() string {
	return "order_counters"
}

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID with items and timeline loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOrderNumber finds an order by its human-facing number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.findOne(ctx, "order_number = ?", orderNumber)
}

// FindByPaymentReference finds the order correlated with a gateway payment
// reference
func (r *GormOrderRepository) FindByPaymentReference(ctx context.Context, reference string) (*order.Order, error) {
	return r.findOne(ctx, "payment_reference = ?", reference)
}

func (r *GormOrderRepository) findOne(ctx context.Context, cond string, arg interface{}) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where(cond, arg).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser lists a buyer's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).Preload("Items").Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByUser counts a buyer's orders
func (r *GormOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAll lists orders with optional status filtering (admin)
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter (admin)
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&order.Order{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts a new order together with its items and timeline
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// SaveWithLock updates the order head row guarded by the aggregate version.
// The domain has already incremented the version, so the row must still
// carry the previous one. Items are immutable after checkout and timeline
// rows go through AppendTimeline, so only the head row is written here.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]interface{}{
			"status":                 o.Status,
			"payment_status":         o.Payment.Status,
			"payment_transaction_id": o.Payment.TransactionID,
			"payment_paid_at":        o.Payment.PaidAt,
			"payment_failure_reason": o.Payment.FailureReason,
			"version":                o.Version,
			"updated_at":             o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// AppendTimeline inserts one audit trail entry
func (r *GormOrderRepository) AppendTimeline(ctx context.Context, entry *order.TimelineEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// NextOrderNumber reserves the next number in the date-scoped sequence.
// The per-day counter row is upserted in a single statement so concurrent
// checkouts never observe the same sequence value.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	day := time.Now().Format("20060102")

	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO order_counters (day, seq) VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		 RETURNING seq`, day).Scan(&seq).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%s-%05d", day, seq), nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
