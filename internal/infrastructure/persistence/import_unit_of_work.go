package persistence

import (
	"context"

	"gorm.io/gorm"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/order"
	"github.com/sellercentric/backend/internal/domain/party"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormImportUnitOfWork persists the outcome of one order import in a
// single database transaction
type GormImportUnitOfWork struct {
	db *gorm.DB
}

// NewGormImportUnitOfWork creates a new GormImportUnitOfWork
func NewGormImportUnitOfWork(db *gorm.DB) *GormImportUnitOfWork {
	return &GormImportUnitOfWork{db: db}
}

// SaveImport writes the party, the imported order and the advanced staging
// row together, so a crash mid-import can never leave an order without its
// party or a staging row claiming an import that did not land
func (u *GormImportUnitOfWork) SaveImport(ctx context.Context, p *party.Party, o *order.Order, so *feed.StagedOrder) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		partyModel := models.PartyModelFromDomain(p)
		if err := tx.Omit("Addresses", "Phones", "Emails").Save(partyModel).Error; err != nil {
			return err
		}
		if err := replacePartyChildren(tx, partyModel); err != nil {
			return err
		}

		if err := saveOrderModel(tx, models.OrderModelFromDomain(o)); err != nil {
			return err
		}

		stagedModel := models.StagedOrderModelFromDomain(so)
		if err := tx.Omit("Items").Save(stagedModel).Error; err != nil {
			return err
		}
		if err := tx.Where("staged_order_id = ?", stagedModel.ID).
			Delete(&models.StagedOrderItemModel{}).Error; err != nil {
			return err
		}
		if len(stagedModel.Items) > 0 {
			if err := tx.Create(&stagedModel.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormImportUnitOfWork implements ImportUnitOfWork
var _ feedapp.ImportUnitOfWork = (*GormImportUnitOfWork)(nil)
