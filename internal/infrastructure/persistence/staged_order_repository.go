package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormStagedOrderRepository implements StagedOrderRepository using GORM
type GormStagedOrderRepository struct {
	db *gorm.DB
}

// NewGormStagedOrderRepository creates a new GormStagedOrderRepository
func NewGormStagedOrderRepository(db *gorm.DB) *GormStagedOrderRepository {
	return &GormStagedOrderRepository{db: db}
}

// FindByID finds a staged order by its ID
func (r *GormStagedOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*feed.StagedOrder, error) {
	var model models.StagedOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a staged order by its marketplace order id
func (r *GormStagedOrderRepository) FindByExternalID(ctx context.Context, externalOrderID string) (*feed.StagedOrder, error) {
	var model models.StagedOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("external_order_id = ?", externalOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a staged order together with its items
func (r *GormStagedOrderRepository) Save(ctx context.Context, so *feed.StagedOrder) error {
	model := models.StagedOrderModelFromDomain(so)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("staged_order_id = ?", model.ID).
			Delete(&models.StagedOrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// FindImportable returns staged orders awaiting import, oldest first.
// A non-positive retry ceiling admits any failure count.
func (r *GormStagedOrderRepository) FindImportable(ctx context.Context, policy feed.RetryPolicy, limit int) ([]*feed.StagedOrder, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StagedOrderModel{}).
		Preload("Items").
		Where("status IN ?", []feed.OrderImportStatus{feed.ImportCreated, feed.ImportError})
	if policy.MaxFailures > 0 {
		query = query.Where("failure_count < ?", policy.MaxFailures)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orderModels []models.StagedOrderModel
	if err := query.Order("created_at ASC").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainStagedOrders(orderModels), nil
}

// FindByDocument returns the staged orders extracted from a document
func (r *GormStagedOrderRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*feed.StagedOrder, error) {
	var orderModels []models.StagedOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainStagedOrders(orderModels), nil
}

// FindAll finds staged orders matching the filter
func (r *GormStagedOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*feed.StagedOrder, error) {
	query := r.db.WithContext(ctx).Model(&models.StagedOrderModel{}).Preload("Items")
	query = applyStagedOrderFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, StagedOrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var orderModels []models.StagedOrderModel
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainStagedOrders(orderModels), nil
}

// Count counts all staged orders
func (r *GormStagedOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StagedOrderModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyStagedOrderFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("external_order_id ILIKE ? OR buyer_email ILIKE ?", search, search)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "document_id":
			query = query.Where("document_id = ?", value)
		case "fulfillment_class":
			query = query.Where("fulfillment_class = ?", value)
		}
	}
	return query
}

func toDomainStagedOrders(orderModels []models.StagedOrderModel) []*feed.StagedOrder {
	orders := make([]*feed.StagedOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = model.ToDomain()
	}
	return orders
}

// Ensure GormStagedOrderRepository implements StagedOrderRepository
var _ feed.StagedOrderRepository = (*GormStagedOrderRepository)(nil)
