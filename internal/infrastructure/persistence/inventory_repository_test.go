package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellercentric/backend/internal/domain/shared"
)

func inventoryColumns() []string {
	return []string{"id", "created_at", "updated_at", "facility_id", "product_id", "sku", "on_hand", "reserved"}
}

func TestGormInventoryRepository_Reserve(t *testing.T) {
	facility := "MAIN"
	productID := uuid.New()
	now := time.Now()

	t.Run("full reservation leaves no shortfall", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		itemID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inventory_items" WHERE facility_id = $1 AND product_id = $2`)).
			WithArgs(facility, productID, 1).
			WillReturnRows(sqlmock.NewRows(inventoryColumns()).
				AddRow(itemID, now, now, facility, productID.String(), "WIDGET-01", "10", "3"))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventory_items" SET "reserved"=reserved + $1`)).
			WithArgs("2", sqlmock.AnyArg(), itemID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		short, err := repo.Reserve(context.Background(), facility, productID, decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.True(t, short.IsZero(), "expected no shortfall, got %s", short)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reserves what is available and reports the rest", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		itemID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inventory_items" WHERE facility_id = $1 AND product_id = $2`)).
			WithArgs(facility, productID, 1).
			WillReturnRows(sqlmock.NewRows(inventoryColumns()).
				AddRow(itemID, now, now, facility, productID.String(), "WIDGET-01", "5", "2"))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventory_items" SET "reserved"=reserved + $1`)).
			WithArgs("3", sqlmock.AnyArg(), itemID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		short, err := repo.Reserve(context.Background(), facility, productID, decimal.NewFromInt(5))

		require.NoError(t, err)
		assert.Equal(t, "2", short.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row means the whole quantity is short", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inventory_items" WHERE facility_id = $1 AND product_id = $2`)).
			WithArgs(facility, productID, 1).
			WillReturnRows(sqlmock.NewRows(inventoryColumns()))
		mock.ExpectCommit()

		short, err := repo.Reserve(context.Background(), facility, productID, decimal.NewFromInt(4))

		require.NoError(t, err)
		assert.Equal(t, "4", short.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero quantity is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		short, err := repo.Reserve(context.Background(), facility, productID, decimal.Zero)

		require.NoError(t, err)
		assert.True(t, short.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryRepository_Release(t *testing.T) {
	facility := "MAIN"
	productID := uuid.New()

	t.Run("returns reserved quantity to the pool", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventory_items" SET "reserved"=reserved - $1`)).
			WithArgs("2", sqlmock.AnyArg(), facility, productID, "2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Release(context.Background(), facility, productID, decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("releasing more than reserved is rejected", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventory_items" SET "reserved"=reserved - $1`)).
			WithArgs("9", sqlmock.AnyArg(), facility, productID, "9").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Release(context.Background(), facility, productID, decimal.NewFromInt(9))

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryRepository_AvailableQuantity(t *testing.T) {
	t.Run("sums available stock across facilities", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT SUM(on_hand - reserved) FROM "inventory_items" WHERE sku = $1`)).
			WithArgs("WIDGET-01").
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("17"))

		qty, err := repo.AvailableQuantity(context.Background(), "WIDGET-01")

		require.NoError(t, err)
		assert.Equal(t, 17, qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown sku reads as zero", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInventoryRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT SUM(on_hand - reserved) FROM "inventory_items" WHERE sku = $1`)).
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

		qty, err := repo.AvailableQuantity(context.Background(), "NOPE")

		require.NoError(t, err)
		assert.Equal(t, 0, qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
