package models

import (
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product entity.
type ProductModel struct {
	BaseModel
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	UPC         string          `gorm:"type:varchar(12);index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		SKU:         m.SKU,
		UPC:         m.UPC,
		Name:        m.Name,
		Description: m.Description,
		ListPrice:   m.ListPrice,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SKU = p.SKU
	m.UPC = p.UPC
	m.Name = p.Name
	m.Description = p.Description
	m.ListPrice = p.ListPrice
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// InventoryItemModel tracks sellable stock per facility and product.
// Available quantity is OnHand minus Reserved.
type InventoryItemModel struct {
	BaseModel
	FacilityID string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_inventory_facility_product,priority:1"`
	ProductID  string          `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_facility_product,priority:2"`
	SKU        string          `gorm:"type:varchar(50);not null;index"`
	OnHand     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}
