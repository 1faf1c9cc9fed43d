package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sellercentric/backend/internal/domain/catalog"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormInventoryRepository tracks stock per facility and product. It serves
// two consumers: order import reserves against it, and the outbound
// inventory feed reads sellable quantities from it.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Reserve moves quantity from available to reserved for one product at one
// facility. It returns the quantity that could NOT be satisfied: zero when
// the full reservation succeeded, the full quantity when no row exists.
// The row is locked for the duration of the transaction so concurrent
// reservations cannot both claim the last unit.
func (r *GormInventoryRepository) Reserve(ctx context.Context, facilityID string, productID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, nil
	}

	var short decimal.Decimal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItemModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("facility_id = ? AND product_id = ?", facilityID, productID).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				short = quantity
				return nil
			}
			return err
		}

		available := item.OnHand.Sub(item.Reserved)
		grant := quantity
		if available.LessThan(quantity) {
			if available.IsNegative() {
				available = decimal.Zero
			}
			grant = available
			short = quantity.Sub(available)
		}
		if grant.IsZero() {
			return nil
		}

		return tx.Model(&models.InventoryItemModel{}).
			Where("id = ?", item.ID).
			Update("reserved", gorm.Expr("reserved + ?", grant)).Error
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("reserve inventory: %w", err)
	}
	return short, nil
}

// Release returns previously reserved quantity to the available pool
func (r *GormInventoryRepository) Release(ctx context.Context, facilityID string, productID uuid.UUID, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Where("facility_id = ? AND product_id = ? AND reserved >= ?", facilityID, productID, quantity).
		Update("reserved", gorm.Expr("reserved - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AvailableQuantity reports the sellable units for one SKU summed across
// facilities, floored at zero
func (r *GormInventoryRepository) AvailableQuantity(ctx context.Context, sku string) (int, error) {
	var available decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Select("SUM(on_hand - reserved)").
		Where("sku = ?", sku).
		Scan(&available).Error
	if err != nil {
		return 0, err
	}
	if !available.Valid || available.Decimal.IsNegative() {
		return 0, nil
	}
	return int(available.Decimal.IntPart()), nil
}

// SetStock replaces the on-hand quantity for one product at one facility,
// creating the row when absent
func (r *GormInventoryRepository) SetStock(ctx context.Context, facilityID string, productID uuid.UUID, sku string, onHand decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItemModel
		err := tx.
			Where("facility_id = ? AND product_id = ?", facilityID, productID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.InventoryItemModel{
				FacilityID: facilityID,
				ProductID:  productID.String(),
				SKU:        sku,
				OnHand:     onHand,
			}
			item.ID = uuid.New()
			return tx.Create(&item).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&models.InventoryItemModel{}).
			Where("id = ?", item.ID).
			Update("on_hand", onHand).Error
	})
}

// Ensure GormInventoryRepository satisfies both consumers
var _ catalog.InventoryService = (*GormInventoryRepository)(nil)
