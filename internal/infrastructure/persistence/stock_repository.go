package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/store/backend/internal/domain/inventory"
	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductStockRepository implements inventory.ProductStockRepository
// using GORM. The reservation counters are mutated exclusively through
// single conditional UPDATEs so concurrent checkouts serialize on the
// database row, never through an application-level read-modify-write.
type GormProductStockRepository struct {
	db *gorm.DB
}

// NewGormProductStockRepository creates a new GormProductStockRepository
func NewGormProductStockRepository(db *gorm.DB) *GormProductStockRepository {
	return &GormProductStockRepository{db: db}
}

// FindByProductID finds the stock record for a product
func (r *GormProductStockRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*inventory.ProductStock, error) {
	var stock inventory.ProductStock
	if err := r.db.WithContext(ctx).First(&stock, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByProductIDs finds stock records for multiple products
func (r *GormProductStockRepository) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]inventory.ProductStock, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var stocks []inventory.ProductStock
	if err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Reserve atomically holds qty units for a pending order. The availability
// check and the increment happen in one UPDATE; zero rows affected means
// either no stock record or not enough available.
func (r *GormProductStockRepository) Reserve(ctx context.Context, productID uuid.UUID, qty int64) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.ProductStock{}).
		Where("product_id = ? AND on_hand - reserved >= ?", productID, qty).
		Updates(map[string]interface{}{
			"reserved":   gorm.Expr("reserved + ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&inventory.ProductStock{}).
			Where("product_id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// Release atomically returns qty reserved units to the available pool,
// clamping at zero so a duplicate release never goes negative.
func (r *GormProductStockRepository) Release(ctx context.Context, productID uuid.UUID, qty int64) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.ProductStock{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"reserved":   gorm.Expr("CASE WHEN reserved >= ? THEN reserved - ? ELSE 0 END", qty, qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Deduct atomically converts a reservation into a permanent decrement on
// confirmed payment
func (r *GormProductStockRepository) Deduct(ctx context.Context, productID uuid.UUID, qty int64) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.ProductStock{}).
		Where("product_id = ? AND on_hand >= ?", productID, qty).
		Updates(map[string]interface{}{
			"on_hand":    gorm.Expr("on_hand - ?", qty),
			"reserved":   gorm.Expr("CASE WHEN reserved >= ? THEN reserved - ? ELSE 0 END", qty, qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&inventory.ProductStock{}).
			Where("product_id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientOnHand
	}
	return nil
}

// FindLowStock returns stock records whose available quantity is at or below
// their low-stock threshold
func (r *GormProductStockRepository) FindLowStock(ctx context.Context) ([]inventory.ProductStock, error) {
	var stocks []inventory.ProductStock
	if err := r.db.WithContext(ctx).
		Where("on_hand - reserved <= low_stock_threshold").
		Order("on_hand - reserved ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Save creates or updates a stock record
func (r *GormProductStockRepository) Save(ctx context.Context, stock *inventory.ProductStock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// Ensure GormProductStockRepository implements ProductStockRepository
var _ inventory.ProductStockRepository = (*GormProductStockRepository)(nil)
