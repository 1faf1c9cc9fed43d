package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Preload("Applications").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a payment together with its applications
func (r *GormPaymentRepository) Save(ctx context.Context, p *finance.Payment) error {
	model := models.PaymentModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Applications").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("payment_id = ?", model.ID).
			Delete(&models.PaymentApplicationModel{}).Error; err != nil {
			return err
		}
		if len(model.Applications) == 0 {
			return nil
		}
		return tx.Create(&model.Applications).Error
	})
}

// FindByParty returns payments made by one party, newest first
func (r *GormPaymentRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*finance.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Preload("Applications").
		Where("party_id = ?", partyID).
		Order("effective_date DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindForStatements returns payments that still carry an unapplied
// remainder or were received on or after the statement period start. An
// empty partyIDs slice selects all parties.
func (r *GormPaymentRepository) FindForStatements(ctx context.Context, periodStart time.Time, partyIDs []uuid.UUID) ([]*finance.Payment, error) {
	applied := r.db.
		Model(&models.PaymentApplicationModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_applications.payment_id = payments.id")

	query := r.db.WithContext(ctx).
		Preload("Applications").
		Where("effective_date >= ? OR amount > (?)", periodStart, applied)
	if len(partyIDs) > 0 {
		query = query.Where("party_id IN ?", partyIDs)
	}
	var paymentModels []models.PaymentModel
	if err := query.
		Order("party_id ASC, effective_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// SumReceivedByBillingAccount totals payments received from the party
// owning the billing account
func (r *GormPaymentRepository) SumReceivedByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Select("SUM(payments.amount)").
		Joins("JOIN billing_accounts ON billing_accounts.party_id = payments.party_id").
		Where("billing_accounts.id = ?", billingAccountID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// SumAppliedToUnpaidInvoicesByBillingAccount totals payment applications
// against invoices on the account that are still open
func (r *GormPaymentRepository) SumAppliedToUnpaidInvoicesByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentApplicationModel{}).
		Select("SUM(payment_applications.amount)").
		Joins("JOIN payments ON payments.id = payment_applications.payment_id").
		Joins("JOIN billing_accounts ON billing_accounts.party_id = payments.party_id").
		Joins("JOIN invoices ON invoices.id = payment_applications.invoice_id").
		Where("billing_accounts.id = ? AND invoices.status = ?", billingAccountID, finance.InvoiceStatusOpen).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func toDomainPayments(paymentModels []models.PaymentModel) []*finance.Payment {
	payments := make([]*finance.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = model.ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
