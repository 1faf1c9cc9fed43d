package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormBillingAccountRepository implements BillingAccountRepository using GORM
type GormBillingAccountRepository struct {
	db *gorm.DB
}

// NewGormBillingAccountRepository creates a new GormBillingAccountRepository
func NewGormBillingAccountRepository(db *gorm.DB) *GormBillingAccountRepository {
	return &GormBillingAccountRepository{db: db}
}

// FindByID finds a billing account by its ID
func (r *GormBillingAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.BillingAccount, error) {
	var model models.BillingAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccountNumber finds a billing account by its account number
func (r *GormBillingAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*finance.BillingAccount, error) {
	var model models.BillingAccountModel
	if err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a billing account
func (r *GormBillingAccountRepository) Save(ctx context.Context, b *finance.BillingAccount) error {
	model := models.BillingAccountModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindActive returns accounts whose thru date is unset or has not passed
func (r *GormBillingAccountRepository) FindActive(ctx context.Context, now time.Time) ([]*finance.BillingAccount, error) {
	var accountModels []models.BillingAccountModel
	if err := r.db.WithContext(ctx).
		Where("thru_date IS NULL OR thru_date >= ?", now).
		Order("account_number ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]*finance.BillingAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = model.ToDomain()
	}
	return accounts, nil
}

// Ensure GormBillingAccountRepository implements BillingAccountRepository
var _ finance.BillingAccountRepository = (*GormBillingAccountRepository)(nil)
