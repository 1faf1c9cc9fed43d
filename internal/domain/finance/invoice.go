package finance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

var (
	ErrInvoiceNotFound = errors.New("finance: invoice not found")
	ErrInvoiceClosed   = errors.New("finance: invoice is not open")
)

// InvoiceType classifies an invoice
type InvoiceType string

const (
	InvoiceSales         InvoiceType = "SALES"
	InvoicePurchase      InvoiceType = "PURCHASE"
	InvoiceFinanceCharge InvoiceType = "FINANCE_CHARGE"
)

// IsValid returns true if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceSales, InvoicePurchase, InvoiceFinanceCharge:
		return true
	}
	return false
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusOpen       InvoiceStatus = "OPEN"
	InvoiceStatusPaid       InvoiceStatus = "PAID"
	InvoiceStatusVoid       InvoiceStatus = "VOID"
	InvoiceStatusWrittenOff InvoiceStatus = "WRITTEN_OFF"
	InvoiceStatusCancelled  InvoiceStatus = "CANCELLED"
)

// IsValid returns true if the invoice status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusVoid,
		InvoiceStatusWrittenOff, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice is the aggregate root for a receivable or payable document.
// AgingDate, when set, overrides InvoiceDate as the reference date for
// statement aging.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	Type          InvoiceType
	Status        InvoiceStatus
	PartyID       uuid.UUID
	InvoiceDate   time.Time
	DueDate       *time.Time
	AgingDate     *time.Time
	PaidDate      *time.Time
	Total         valueobject.Money
	Description   string
}

// NewInvoice creates an open invoice
func NewInvoice(invoiceNumber string, invoiceType InvoiceType, partyID uuid.UUID, invoiceDate time.Time, total valueobject.Money) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Unknown invoice type")
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		Type:              invoiceType,
		Status:            InvoiceStatusOpen,
		PartyID:           partyID,
		InvoiceDate:       invoiceDate,
		Total:             total,
	}, nil
}

// IsOutstanding reports whether the invoice still counts toward a party's
// receivable balance
func (i *Invoice) IsOutstanding() bool {
	return i.Status == InvoiceStatusOpen
}

// EffectiveAgingDate returns the date statements should age this invoice
// from. The explicit aging date wins over the invoice date when present.
func (i *Invoice) EffectiveAgingDate() time.Time {
	if i.AgingDate != nil {
		return *i.AgingDate
	}
	return i.InvoiceDate
}

// MarkPaid closes the invoice as fully paid
func (i *Invoice) MarkPaid(paidAt time.Time) error {
	if i.Status != InvoiceStatusOpen {
		return ErrInvoiceClosed
	}
	i.Status = InvoiceStatusPaid
	i.PaidDate = &paidAt
	i.Touch()
	return nil
}

// WriteOff closes the invoice as uncollectable
func (i *Invoice) WriteOff() error {
	if i.Status != InvoiceStatusOpen {
		return ErrInvoiceClosed
	}
	i.Status = InvoiceStatusWrittenOff
	i.Touch()
	return nil
}

// AmountDue returns the remaining balance given the amount already applied
// through payments
func (i *Invoice) AmountDue(applied decimal.Decimal) decimal.Decimal {
	if !i.IsOutstanding() {
		return decimal.Zero
	}
	return i.Total.Amount().Sub(applied)
}
