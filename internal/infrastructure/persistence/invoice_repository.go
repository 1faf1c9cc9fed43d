package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindOutstandingByParty returns open invoices for one party, oldest
// invoice date first
func (r *GormInvoiceRepository) FindOutstandingByParty(ctx context.Context, partyID uuid.UUID) ([]*finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("party_id = ? AND status = ?", partyID, finance.InvoiceStatusOpen).
		Order("invoice_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindForStatements returns invoices that are still open or were closed
// on or after the statement period start. An empty partyIDs slice selects
// all parties.
func (r *GormInvoiceRepository) FindForStatements(ctx context.Context, periodStart time.Time, partyIDs []uuid.UUID) ([]*finance.Invoice, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? OR paid_date >= ?", finance.InvoiceStatusOpen, periodStart)
	if len(partyIDs) > 0 {
		query = query.Where("party_id IN ?", partyIDs)
	}
	var invoiceModels []models.InvoiceModel
	if err := query.
		Order("party_id ASC, invoice_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindAll finds invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.Invoice, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	query = applyInvoiceFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "invoice_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var invoiceModels []models.InvoiceModel
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

func applyInvoiceFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "party_id":
			query = query.Where("party_id = ?", value)
		}
	}
	return query
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []*finance.Invoice {
	invoices := make([]*finance.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = model.ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
