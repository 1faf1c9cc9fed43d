package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// restoreMoney rebuilds a Money value from stored amount and currency
// columns. Rows written before a currency was recorded fall back to the
// default currency.
func restoreMoney(amount decimal.Decimal, currency string) valueobject.Money {
	if currency == "" {
		currency = string(valueobject.DefaultCurrency)
	}
	m, err := valueobject.NewMoney(amount, valueobject.Currency(currency))
	if err != nil {
		return valueobject.NewMoneyUSD(amount)
	}
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type          finance.InvoiceType   `gorm:"type:varchar(20);not null"`
	Status        finance.InvoiceStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	PartyID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceDate   time.Time             `gorm:"not null;index"`
	DueDate       *time.Time            `gorm:"index"`
	AgingDate     *time.Time
	PaidDate      *time.Time      `gorm:"index"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	Description   string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseAggregateRoot: m.toAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		Type:              m.Type,
		Status:            m.Status,
		PartyID:           m.PartyID,
		InvoiceDate:       m.InvoiceDate,
		DueDate:           m.DueDate,
		AgingDate:         m.AgingDate,
		PaidDate:          m.PaidDate,
		Total:             restoreMoney(m.Total, m.Currency),
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *finance.Invoice) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.InvoiceNumber = i.InvoiceNumber
	m.Type = i.Type
	m.Status = i.Status
	m.PartyID = i.PartyID
	m.InvoiceDate = i.InvoiceDate
	m.DueDate = i.DueDate
	m.AgingDate = i.AgingDate
	m.PaidDate = i.PaidDate
	m.Total = i.Total.Amount()
	m.Currency = string(i.Total.Currency())
	m.Description = i.Description
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	PaymentNumber string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	PartyID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Method        finance.PaymentMethod     `gorm:"type:varchar(30);not null"`
	EffectiveDate time.Time                 `gorm:"not null;index"`
	Amount        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Currency      string                    `gorm:"type:varchar(3);not null"`
	Reference     string                    `gorm:"type:varchar(100)"`
	Applications  []PaymentApplicationModel `gorm:"foreignKey:PaymentID;references:ID"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *finance.Payment {
	p := &finance.Payment{
		BaseAggregateRoot: m.toAggregateRoot(),
		PaymentNumber:     m.PaymentNumber,
		PartyID:           m.PartyID,
		Method:            m.Method,
		EffectiveDate:     m.EffectiveDate,
		Amount:            restoreMoney(m.Amount, m.Currency),
		Reference:         m.Reference,
		Applications:      make([]finance.PaymentApplication, len(m.Applications)),
	}
	for i, app := range m.Applications {
		p.Applications[i] = *app.ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PaymentNumber = p.PaymentNumber
	m.PartyID = p.PartyID
	m.Method = p.Method
	m.EffectiveDate = p.EffectiveDate
	m.Amount = p.Amount.Amount()
	m.Currency = string(p.Amount.Currency())
	m.Reference = p.Reference
	m.Applications = make([]PaymentApplicationModel, len(p.Applications))
	for i, app := range p.Applications {
		m.Applications[i] = *PaymentApplicationModelFromDomain(&app)
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentApplicationModel is the persistence model for the PaymentApplication entity.
type PaymentApplicationModel struct {
	BaseModel
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PaymentApplicationModel) TableName() string {
	return "payment_applications"
}

// ToDomain converts the persistence model to a domain PaymentApplication entity.
func (m *PaymentApplicationModel) ToDomain() *finance.PaymentApplication {
	return &finance.PaymentApplication{
		BaseEntity: m.BaseModel.ToDomain(),
		PaymentID:  m.PaymentID,
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
	}
}

// FromDomain populates the persistence model from a domain PaymentApplication entity.
func (m *PaymentApplicationModel) FromDomain(a *finance.PaymentApplication) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PaymentID = a.PaymentID
	m.InvoiceID = a.InvoiceID
	m.Amount = a.Amount
}

// PaymentApplicationModelFromDomain creates a new persistence model from a domain PaymentApplication entity.
func PaymentApplicationModelFromDomain(a *finance.PaymentApplication) *PaymentApplicationModel {
	m := &PaymentApplicationModel{}
	m.FromDomain(a)
	return m
}

// BillingAccountModel is the persistence model for the BillingAccount aggregate root.
type BillingAccountModel struct {
	AggregateModel
	AccountNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	PartyID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceAsOf   *time.Time
	ThruDate      *time.Time `gorm:"index"`
	Description   string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (BillingAccountModel) TableName() string {
	return "billing_accounts"
}

// ToDomain converts the persistence model to a domain BillingAccount entity.
func (m *BillingAccountModel) ToDomain() *finance.BillingAccount {
	return &finance.BillingAccount{
		BaseAggregateRoot: m.toAggregateRoot(),
		AccountNumber:     m.AccountNumber,
		PartyID:           m.PartyID,
		CreditLimit:       restoreMoney(m.CreditLimit, m.Currency),
		Balance:           m.Balance,
		BalanceAsOf:       m.BalanceAsOf,
		ThruDate:          m.ThruDate,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain BillingAccount entity.
func (m *BillingAccountModel) FromDomain(a *finance.BillingAccount) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.AccountNumber = a.AccountNumber
	m.PartyID = a.PartyID
	m.CreditLimit = a.CreditLimit.Amount()
	m.Currency = string(a.CreditLimit.Currency())
	m.Balance = a.Balance
	m.BalanceAsOf = a.BalanceAsOf
	m.ThruDate = a.ThruDate
	m.Description = a.Description
}

// BillingAccountModelFromDomain creates a new persistence model from a domain BillingAccount entity.
func BillingAccountModelFromDomain(a *finance.BillingAccount) *BillingAccountModel {
	m := &BillingAccountModel{}
	m.FromDomain(a)
	return m
}
