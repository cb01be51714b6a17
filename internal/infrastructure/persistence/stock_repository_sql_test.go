package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/store/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStockRepository creates a GormProductStockRepository over a mocked
// SQL connection so the emitted statements can be asserted verbatim. The
// counters must be guarded inside the UPDATE itself, not by a prior read.
func newMockStockRepository(t *testing.T) (*GormProductStockRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductStockRepository(gormDB), mock, mockDB
}

func TestGormProductStockRepository_ReserveSQL(t *testing.T) {
	ctx := context.Background()

	t.Run("guards availability inside the UPDATE", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "product_stocks" SET "reserved"=reserved \+ \$1,"updated_at"=\$2 WHERE product_id = \$3 AND on_hand - reserved >= \$4`).
			WithArgs(int64(3), sqlmock.AnyArg(), productID, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Reserve(ctx, productID, 3)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows on an existing record means insufficient stock", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "product_stocks" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "product_stocks" WHERE product_id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.Reserve(ctx, productID, 3)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows with no record means not found", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "product_stocks" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "product_stocks"`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.Reserve(ctx, productID, 3)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductStockRepository_DeductSQL(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements on-hand and clamps reserved in one UPDATE", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "product_stocks" SET "on_hand"=on_hand - \$1,"reserved"=CASE WHEN reserved >= \$2 THEN reserved - \$3 ELSE 0 END,"updated_at"=\$4 WHERE product_id = \$5 AND on_hand >= \$6`).
			WithArgs(int64(2), int64(2), int64(2), sqlmock.AnyArg(), productID, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Deduct(ctx, productID, 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows on an existing record means insufficient on-hand", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "product_stocks" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "product_stocks"`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.Deduct(ctx, productID, 2)

		assert.ErrorIs(t, err, shared.ErrInsufficientOnHand)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductStockRepository_ReleaseSQL(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps the reservation at zero in one UPDATE", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "product_stocks" SET "reserved"=CASE WHEN reserved >= \$1 THEN reserved - \$2 ELSE 0 END,"updated_at"=\$3 WHERE product_id = \$4`).
			WithArgs(int64(5), int64(5), sqlmock.AnyArg(), productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Release(ctx, productID, 5)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
