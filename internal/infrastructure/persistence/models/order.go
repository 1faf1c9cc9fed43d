package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/order"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber      string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	ExternalOrderID  string             `gorm:"type:varchar(50);index"`
	SalesChannel     order.SalesChannel `gorm:"type:varchar(20);not null"`
	Status           order.Status       `gorm:"type:varchar(20);not null;default:'CREATED'"`
	PartyID          uuid.UUID          `gorm:"type:uuid;not null;index"`
	BillingAccountID *uuid.UUID         `gorm:"type:uuid;index"`
	Currency         string             `gorm:"type:varchar(3);not null"`
	Items            []OrderItemModel   `gorm:"foreignKey:OrderID;references:ID"`
	Adjustments      []AdjustmentModel  `gorm:"foreignKey:OrderID;references:ID"`
	ShipGroup        *ShipGroupModel    `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.toAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		ExternalOrderID:   m.ExternalOrderID,
		SalesChannel:      m.SalesChannel,
		Status:            m.Status,
		PartyID:           m.PartyID,
		BillingAccountID:  m.BillingAccountID,
		Currency:          valueobject.Currency(m.Currency),
		Items:             make([]order.Item, len(m.Items)),
		Adjustments:       make([]order.Adjustment, len(m.Adjustments)),
	}
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	for i, adj := range m.Adjustments {
		o.Adjustments[i] = *adj.ToDomain()
	}
	if m.ShipGroup != nil {
		o.ShipGroup = *m.ShipGroup.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.ExternalOrderID = o.ExternalOrderID
	m.SalesChannel = o.SalesChannel
	m.Status = o.Status
	m.PartyID = o.PartyID
	m.BillingAccountID = o.BillingAccountID
	m.Currency = string(o.Currency)
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&item)
	}
	m.Adjustments = make([]AdjustmentModel, len(o.Adjustments))
	for i, adj := range o.Adjustments {
		m.Adjustments[i] = *AdjustmentModelFromDomain(&adj)
	}
	if o.ShipGroup.ID != uuid.Nil {
		m.ShipGroup = ShipGroupModelFromDomain(&o.ShipGroup)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the order Item entity.
type OrderItemModel struct {
	BaseModel
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SequenceID     int             `gorm:"not null"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	ExternalItemID string          `gorm:"type:varchar(50)"`
	Description    string          `gorm:"type:varchar(500)"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Item entity.
func (m *OrderItemModel) ToDomain() *order.Item {
	return &order.Item{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrderID:        m.OrderID,
		SequenceID:     m.SequenceID,
		ProductID:      m.ProductID,
		ExternalItemID: m.ExternalItemID,
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Subtotal:       m.Subtotal,
	}
}

// FromDomain populates the persistence model from a domain Item entity.
func (m *OrderItemModel) FromDomain(i *order.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.OrderID = i.OrderID
	m.SequenceID = i.SequenceID
	m.ProductID = i.ProductID
	m.ExternalItemID = i.ExternalItemID
	m.Description = i.Description
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.Subtotal = i.Subtotal
}

// OrderItemModelFromDomain creates a new persistence model from a domain Item entity.
func OrderItemModelFromDomain(i *order.Item) *OrderItemModel {
	m := &OrderItemModel{}
	m.FromDomain(i)
	return m
}

// AdjustmentModel is the persistence model for the Adjustment entity.
type AdjustmentModel struct {
	BaseModel
	OrderID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderItemSeqID *int
	Type           order.AdjustmentType `gorm:"type:varchar(30);not null"`
	Amount         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Description    string               `gorm:"type:varchar(255)"`
	PromotionID    string               `gorm:"type:varchar(50)"`
	ClaimCode      string               `gorm:"type:varchar(50)"`
	TaxAuthorityID *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AdjustmentModel) TableName() string {
	return "order_adjustments"
}

// ToDomain converts the persistence model to a domain Adjustment entity.
func (m *AdjustmentModel) ToDomain() *order.Adjustment {
	return &order.Adjustment{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrderID:        m.OrderID,
		OrderItemSeqID: m.OrderItemSeqID,
		Type:           m.Type,
		Amount:         m.Amount,
		Description:    m.Description,
		PromotionID:    m.PromotionID,
		ClaimCode:      m.ClaimCode,
		TaxAuthorityID: m.TaxAuthorityID,
	}
}

// FromDomain populates the persistence model from a domain Adjustment entity.
func (m *AdjustmentModel) FromDomain(a *order.Adjustment) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.OrderID = a.OrderID
	m.OrderItemSeqID = a.OrderItemSeqID
	m.Type = a.Type
	m.Amount = a.Amount
	m.Description = a.Description
	m.PromotionID = a.PromotionID
	m.ClaimCode = a.ClaimCode
	m.TaxAuthorityID = a.TaxAuthorityID
}

// AdjustmentModelFromDomain creates a new persistence model from a domain Adjustment entity.
func AdjustmentModelFromDomain(a *order.Adjustment) *AdjustmentModel {
	m := &AdjustmentModel{}
	m.FromDomain(a)
	return m
}

// ShipGroupModel is the persistence model for the ShipGroup entity.
type ShipGroupModel struct {
	BaseModel
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ShipmentMethod   string     `gorm:"type:varchar(50)"`
	CarrierPartyName string     `gorm:"type:varchar(100)"`
	PostalAddressID  *uuid.UUID `gorm:"type:uuid"`
	PhoneContactID   *uuid.UUID `gorm:"type:uuid"`
	MaySplit         bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ShipGroupModel) TableName() string {
	return "order_ship_groups"
}

// ToDomain converts the persistence model to a domain ShipGroup entity.
func (m *ShipGroupModel) ToDomain() *order.ShipGroup {
	return &order.ShipGroup{
		BaseEntity:       m.BaseModel.ToDomain(),
		OrderID:          m.OrderID,
		ShipmentMethod:   m.ShipmentMethod,
		CarrierPartyName: m.CarrierPartyName,
		PostalAddressID:  m.PostalAddressID,
		PhoneContactID:   m.PhoneContactID,
		MaySplit:         m.MaySplit,
	}
}

// FromDomain populates the persistence model from a domain ShipGroup entity.
func (m *ShipGroupModel) FromDomain(g *order.ShipGroup) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.OrderID = g.OrderID
	m.ShipmentMethod = g.ShipmentMethod
	m.CarrierPartyName = g.CarrierPartyName
	m.PostalAddressID = g.PostalAddressID
	m.PhoneContactID = g.PhoneContactID
	m.MaySplit = g.MaySplit
}

// ShipGroupModelFromDomain creates a new persistence model from a domain ShipGroup entity.
func ShipGroupModelFromDomain(g *order.ShipGroup) *ShipGroupModel {
	m := &ShipGroupModel{}
	m.FromDomain(g)
	return m
}
