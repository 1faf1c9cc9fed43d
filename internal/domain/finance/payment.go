package finance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

var ErrPaymentNotFound = errors.New("finance: payment not found")

// PaymentMethod identifies how a payment was made
type PaymentMethod string

const (
	PaymentMethodCheck       PaymentMethod = "CHECK"
	PaymentMethodCreditCard  PaymentMethod = "CREDIT_CARD"
	PaymentMethodWire        PaymentMethod = "WIRE"
	PaymentMethodMarketplace PaymentMethod = "MARKETPLACE_SETTLEMENT"
)

// Payment records money received from a party. A payment is applied to
// invoices through PaymentApplication rows; the unapplied remainder counts
// as a credit on statements.
type Payment struct {
	shared.BaseAggregateRoot
	PaymentNumber string
	PartyID       uuid.UUID
	Method        PaymentMethod
	EffectiveDate time.Time
	Amount        valueobject.Money
	Reference     string
	Applications  []PaymentApplication
}

// PaymentApplication allocates part of a payment to an invoice
type PaymentApplication struct {
	shared.BaseEntity
	PaymentID uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// NewPayment creates a payment with no applications
func NewPayment(paymentNumber string, partyID uuid.UUID, method PaymentMethod, effectiveDate time.Time, amount valueobject.Money) (*Payment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount cannot be negative")
	}
	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     paymentNumber,
		PartyID:           partyID,
		Method:            method,
		EffectiveDate:     effectiveDate,
		Amount:            amount,
		Applications:      make([]PaymentApplication, 0),
	}, nil
}

// AppliedTotal returns the sum of all invoice applications
func (p *Payment) AppliedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, app := range p.Applications {
		total = total.Add(app.Amount)
	}
	return total
}

// UnappliedAmount returns the remainder not yet allocated to any invoice
func (p *Payment) UnappliedAmount() decimal.Decimal {
	return p.Amount.Amount().Sub(p.AppliedTotal())
}

// ApplyToInvoice allocates part of the payment to an invoice. The
// allocation cannot exceed the unapplied remainder.
func (p *Payment) ApplyToInvoice(invoiceID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_APPLICATION", "Application amount must be positive")
	}
	if amount.GreaterThan(p.UnappliedAmount()) {
		return shared.NewDomainError("OVERAPPLIED_PAYMENT", "Application exceeds unapplied payment amount")
	}
	p.Applications = append(p.Applications, PaymentApplication{
		BaseEntity: shared.NewBaseEntity(),
		PaymentID:  p.ID,
		InvoiceID:  invoiceID,
		Amount:     amount,
	})
	p.Touch()
	return nil
}
