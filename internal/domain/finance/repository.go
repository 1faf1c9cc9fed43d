package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
	// FindOutstandingByParty returns open invoices for one party
	FindOutstandingByParty(ctx context.Context, partyID uuid.UUID) ([]*Invoice, error)
	// FindForStatements returns invoices that are open or were closed on
	// or after periodStart. An empty partyIDs slice selects all parties.
	FindForStatements(ctx context.Context, periodStart time.Time, partyIDs []uuid.UUID) ([]*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Invoice, error)
}

// PaymentRepository defines the persistence interface for payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]*Payment, error)
	// FindForStatements returns payments that are unapplied or were
	// received on or after periodStart. An empty partyIDs slice selects
	// all parties.
	FindForStatements(ctx context.Context, periodStart time.Time, partyIDs []uuid.UUID) ([]*Payment, error)
	// SumReceivedByBillingAccount totals payments credited to a billing
	// account
	SumReceivedByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error)
	// SumAppliedToUnpaidInvoicesByBillingAccount totals payment
	// applications against still-open invoices on the account
	SumAppliedToUnpaidInvoicesByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error)
}

// BillingAccountRepository defines the persistence interface for billing
// accounts
type BillingAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillingAccount, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*BillingAccount, error)
	Save(ctx context.Context, b *BillingAccount) error
	// FindActive returns accounts whose thru date has not passed
	FindActive(ctx context.Context, now time.Time) ([]*BillingAccount, error)
}
