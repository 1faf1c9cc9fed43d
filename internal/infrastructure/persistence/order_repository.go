package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/order"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Adjustments").
		Preload("ShipGroup").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds an order by its marketplace order id
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Adjustments").
		Preload("ShipGroup").
		Where("external_order_id = ?", externalOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an order together with its items, adjustments
// and ship group
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveOrderModel(tx, model)
	})
}

func saveOrderModel(tx *gorm.DB, model *models.OrderModel) error {
	if err := tx.Omit("Items", "Adjustments", "ShipGroup").Save(model).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", model.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", model.ID).Delete(&models.AdjustmentModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", model.ID).Delete(&models.ShipGroupModel{}).Error; err != nil {
		return err
	}
	if len(model.Items) > 0 {
		if err := tx.Create(&model.Items).Error; err != nil {
			return err
		}
	}
	if len(model.Adjustments) > 0 {
		if err := tx.Create(&model.Adjustments).Error; err != nil {
			return err
		}
	}
	if model.ShipGroup != nil {
		if err := tx.Create(model.ShipGroup).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Preload("Items").
		Preload("Adjustments").
		Preload("ShipGroup")
	query = applyOrderFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var orderModels []models.OrderModel
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = model.ToDomain()
	}
	return orders, nil
}

// Count counts all orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOpenOrderTotalsByBillingAccount returns the grand total sum of
// CREATED and APPROVED orders charged to the billing account. Item lines
// and adjustment amounts are summed in SQL so totals stay consistent
// with what GrandTotal computes in memory.
func (r *GormOrderRepository) SumOpenOrderTotalsByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error) {
	openStatuses := []order.Status{order.StatusCreated, order.StatusApproved}

	var itemTotal decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Select("SUM(order_items.subtotal)").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.billing_account_id = ? AND orders.status IN ?", billingAccountID, openStatuses).
		Scan(&itemTotal).Error; err != nil {
		return decimal.Zero, err
	}

	var adjustmentTotal decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.AdjustmentModel{}).
		Select("SUM(order_adjustments.amount)").
		Joins("JOIN orders ON orders.id = order_adjustments.order_id").
		Where("orders.billing_account_id = ? AND orders.status IN ?", billingAccountID, openStatuses).
		Scan(&adjustmentTotal).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	if itemTotal.Valid {
		total = total.Add(itemTotal.Decimal)
	}
	if adjustmentTotal.Valid {
		total = total.Add(adjustmentTotal.Decimal)
	}
	return total, nil
}

func applyOrderFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("order_number ILIKE ? OR external_order_id ILIKE ?", search, search)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "party_id":
			query = query.Where("party_id = ?", value)
		case "sales_channel":
			query = query.Where("sales_channel = ?", value)
		case "billing_account_id":
			query = query.Where("billing_account_id = ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
