package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// StagedDocumentModel is the persistence model for the StagedDocument aggregate root.
type StagedDocumentModel struct {
	AggregateModel
	ExternalDocumentID string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type               feed.DocumentType   `gorm:"type:varchar(30);not null"`
	Status             feed.DocumentStatus `gorm:"type:varchar(20);not null;index"`
	AckStatus          feed.AckStatus      `gorm:"type:varchar(20);not null;index"`
	Payload            []byte              `gorm:"type:bytea"`
	ArchiveKey         string              `gorm:"type:varchar(255)"`
	SubmissionID       string              `gorm:"type:varchar(50);index"`
	AckMessageID       int                 `gorm:"not null;default:0"`
	GeneratedAt        time.Time           `gorm:"not null"`
	DownloadedAt       time.Time           `gorm:"not null"`
	ExtractedAt        *time.Time
	AckedAt            *time.Time
	FailureCount       int    `gorm:"not null;default:0"`
	LastError          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StagedDocumentModel) TableName() string {
	return "staged_documents"
}

// ToDomain converts the persistence model to a domain StagedDocument entity.
func (m *StagedDocumentModel) ToDomain() *feed.StagedDocument {
	return &feed.StagedDocument{
		BaseAggregateRoot:  m.toAggregateRoot(),
		ExternalDocumentID: m.ExternalDocumentID,
		Type:               m.Type,
		Status:             m.Status,
		AckStatus:          m.AckStatus,
		Payload:            m.Payload,
		ArchiveKey:         m.ArchiveKey,
		SubmissionID:       m.SubmissionID,
		AckMessageID:       m.AckMessageID,
		GeneratedAt:        m.GeneratedAt,
		DownloadedAt:       m.DownloadedAt,
		ExtractedAt:        m.ExtractedAt,
		AckedAt:            m.AckedAt,
		FailureCount:       m.FailureCount,
		LastError:          m.LastError,
	}
}

// FromDomain populates the persistence model from a domain StagedDocument entity.
func (m *StagedDocumentModel) FromDomain(d *feed.StagedDocument) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.ExternalDocumentID = d.ExternalDocumentID
	m.Type = d.Type
	m.Status = d.Status
	m.AckStatus = d.AckStatus
	m.Payload = d.Payload
	m.ArchiveKey = d.ArchiveKey
	m.SubmissionID = d.SubmissionID
	m.AckMessageID = d.AckMessageID
	m.GeneratedAt = d.GeneratedAt
	m.DownloadedAt = d.DownloadedAt
	m.ExtractedAt = d.ExtractedAt
	m.AckedAt = d.AckedAt
	m.FailureCount = d.FailureCount
	m.LastError = d.LastError
}

// StagedDocumentModelFromDomain creates a new persistence model from a domain StagedDocument entity.
func StagedDocumentModelFromDomain(d *feed.StagedDocument) *StagedDocumentModel {
	m := &StagedDocumentModel{}
	m.FromDomain(d)
	return m
}

// StagedOrderModel is the persistence model for the StagedOrder aggregate root.
type StagedOrderModel struct {
	AggregateModel
	DocumentID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	ExternalOrderID string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status          feed.OrderImportStatus `gorm:"type:varchar(20);not null;index"`
	OrderDate       time.Time              `gorm:"not null"`

	BuyerName  string `gorm:"type:varchar(200)"`
	BuyerEmail string `gorm:"type:varchar(255)"`
	BuyerPhone string `gorm:"type:varchar(50)"`

	ShipToName       string `gorm:"type:varchar(200)"`
	ShipAddress1     string `gorm:"type:varchar(255)"`
	ShipAddress2     string `gorm:"type:varchar(255)"`
	ShipCity         string `gorm:"type:varchar(100)"`
	ShipState        string `gorm:"type:varchar(100)"`
	ShipCountry      string `gorm:"type:varchar(100)"`
	ShipPostalCode   string `gorm:"type:varchar(20)"`
	ShipPhone        string `gorm:"type:varchar(50)"`
	ShipmentMethod   string `gorm:"type:varchar(50)"`
	FulfillmentClass string `gorm:"type:varchar(50)"`

	CurrencyCode string                 `gorm:"type:varchar(3)"`
	Items        []StagedOrderItemModel `gorm:"foreignKey:StagedOrderID;references:ID"`

	ImportedOrderID *uuid.UUID `gorm:"type:uuid;index"`
	ImportedAt      *time.Time
	FailureCount    int    `gorm:"not null;default:0"`
	LastError       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StagedOrderModel) TableName() string {
	return "staged_orders"
}

// ToDomain converts the persistence model to a domain StagedOrder entity.
func (m *StagedOrderModel) ToDomain() *feed.StagedOrder {
	so := &feed.StagedOrder{
		BaseAggregateRoot: m.toAggregateRoot(),
		DocumentID:        m.DocumentID,
		ExternalOrderID:   m.ExternalOrderID,
		Status:            m.Status,
		OrderDate:         m.OrderDate,
		BuyerName:         m.BuyerName,
		BuyerEmail:        m.BuyerEmail,
		BuyerPhone:        m.BuyerPhone,
		ShipToName:        m.ShipToName,
		ShipAddress1:      m.ShipAddress1,
		ShipAddress2:      m.ShipAddress2,
		ShipCity:          m.ShipCity,
		ShipState:         m.ShipState,
		ShipCountry:       m.ShipCountry,
		ShipPostalCode:    m.ShipPostalCode,
		ShipPhone:         m.ShipPhone,
		ShipmentMethod:    m.ShipmentMethod,
		FulfillmentClass:  m.FulfillmentClass,
		CurrencyCode:      m.CurrencyCode,
		Items:             make([]feed.StagedOrderItem, len(m.Items)),
		ImportedOrderID:   m.ImportedOrderID,
		ImportedAt:        m.ImportedAt,
		FailureCount:      m.FailureCount,
		LastError:         m.LastError,
	}
	for i, item := range m.Items {
		so.Items[i] = *item.ToDomain()
	}
	return so
}

// FromDomain populates the persistence model from a domain StagedOrder entity.
func (m *StagedOrderModel) FromDomain(so *feed.StagedOrder) {
	m.FromDomainAggregateRoot(so.BaseAggregateRoot)
	m.DocumentID = so.DocumentID
	m.ExternalOrderID = so.ExternalOrderID
	m.Status = so.Status
	m.OrderDate = so.OrderDate
	m.BuyerName = so.BuyerName
	m.BuyerEmail = so.BuyerEmail
	m.BuyerPhone = so.BuyerPhone
	m.ShipToName = so.ShipToName
	m.ShipAddress1 = so.ShipAddress1
	m.ShipAddress2 = so.ShipAddress2
	m.ShipCity = so.ShipCity
	m.ShipState = so.ShipState
	m.ShipCountry = so.ShipCountry
	m.ShipPostalCode = so.ShipPostalCode
	m.ShipPhone = so.ShipPhone
	m.ShipmentMethod = so.ShipmentMethod
	m.FulfillmentClass = so.FulfillmentClass
	m.CurrencyCode = so.CurrencyCode
	m.Items = make([]StagedOrderItemModel, len(so.Items))
	for i, item := range so.Items {
		m.Items[i] = *StagedOrderItemModelFromDomain(&item)
	}
	m.ImportedOrderID = so.ImportedOrderID
	m.ImportedAt = so.ImportedAt
	m.FailureCount = so.FailureCount
	m.LastError = so.LastError
}

// StagedOrderModelFromDomain creates a new persistence model from a domain StagedOrder entity.
func StagedOrderModelFromDomain(so *feed.StagedOrder) *StagedOrderModel {
	m := &StagedOrderModel{}
	m.FromDomain(so)
	return m
}

// StagedOrderItemModel is the persistence model for the StagedOrderItem entity.
// The price component, tax, promotion and fee lists are stored as JSONB
// since they are read back whole and never queried by column.
type StagedOrderItemModel struct {
	BaseModel
	StagedOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExternalItemID string          `gorm:"type:varchar(50)"`
	ProductCode    string          `gorm:"type:varchar(50);not null"`
	Description    string          `gorm:"type:varchar(500)"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ComponentsJSON string          `gorm:"column:components;type:jsonb;default:'[]'"`
	TaxesJSON      string          `gorm:"column:taxes;type:jsonb;default:'[]'"`
	PromotionsJSON string          `gorm:"column:promotions;type:jsonb;default:'[]'"`
	FeesJSON       string          `gorm:"column:fees;type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (StagedOrderItemModel) TableName() string {
	return "staged_order_items"
}

// ToDomain converts the persistence model to a domain StagedOrderItem entity.
func (m *StagedOrderItemModel) ToDomain() *feed.StagedOrderItem {
	item := &feed.StagedOrderItem{
		BaseEntity:     m.BaseModel.ToDomain(),
		StagedOrderID:  m.StagedOrderID,
		ExternalItemID: m.ExternalItemID,
		ProductCode:    m.ProductCode,
		Description:    m.Description,
		Quantity:       m.Quantity,
	}
	if m.ComponentsJSON != "" {
		_ = json.Unmarshal([]byte(m.ComponentsJSON), &item.Components)
	}
	if m.TaxesJSON != "" {
		_ = json.Unmarshal([]byte(m.TaxesJSON), &item.Taxes)
	}
	if m.PromotionsJSON != "" {
		_ = json.Unmarshal([]byte(m.PromotionsJSON), &item.Promotions)
	}
	if m.FeesJSON != "" {
		_ = json.Unmarshal([]byte(m.FeesJSON), &item.Fees)
	}
	return item
}

// FromDomain populates the persistence model from a domain StagedOrderItem entity.
func (m *StagedOrderItemModel) FromDomain(i *feed.StagedOrderItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.StagedOrderID = i.StagedOrderID
	m.ExternalItemID = i.ExternalItemID
	m.ProductCode = i.ProductCode
	m.Description = i.Description
	m.Quantity = i.Quantity
	m.ComponentsJSON = marshalList(i.Components)
	m.TaxesJSON = marshalList(i.Taxes)
	m.PromotionsJSON = marshalList(i.Promotions)
	m.FeesJSON = marshalList(i.Fees)
}

// StagedOrderItemModelFromDomain creates a new persistence model from a domain StagedOrderItem entity.
func StagedOrderItemModelFromDomain(i *feed.StagedOrderItem) *StagedOrderItemModel {
	m := &StagedOrderItemModel{}
	m.FromDomain(i)
	return m
}

func marshalList[T any](list []T) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// StagedFeedModel is the persistence model for the StagedFeed aggregate root.
type StagedFeedModel struct {
	AggregateModel
	Kind         feed.FeedKind  `gorm:"type:varchar(30);not null;index"`
	SubmissionID string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	AckStatus    feed.AckStatus `gorm:"type:varchar(20);not null;index"`
	MessageCount int            `gorm:"not null;default:0"`
	SubmittedAt  time.Time      `gorm:"not null"`
	ReconciledAt *time.Time
	LastError    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StagedFeedModel) TableName() string {
	return "staged_feeds"
}

// ToDomain converts the persistence model to a domain StagedFeed entity.
func (m *StagedFeedModel) ToDomain() *feed.StagedFeed {
	return &feed.StagedFeed{
		BaseAggregateRoot: m.toAggregateRoot(),
		Kind:              m.Kind,
		SubmissionID:      m.SubmissionID,
		AckStatus:         m.AckStatus,
		MessageCount:      m.MessageCount,
		SubmittedAt:       m.SubmittedAt,
		ReconciledAt:      m.ReconciledAt,
		LastError:         m.LastError,
	}
}

// FromDomain populates the persistence model from a domain StagedFeed entity.
func (m *StagedFeedModel) FromDomain(f *feed.StagedFeed) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.Kind = f.Kind
	m.SubmissionID = f.SubmissionID
	m.AckStatus = f.AckStatus
	m.MessageCount = f.MessageCount
	m.SubmittedAt = f.SubmittedAt
	m.ReconciledAt = f.ReconciledAt
	m.LastError = f.LastError
}

// StagedFeedModelFromDomain creates a new persistence model from a domain StagedFeed entity.
func StagedFeedModelFromDomain(f *feed.StagedFeed) *StagedFeedModel {
	m := &StagedFeedModel{}
	m.FromDomain(f)
	return m
}
