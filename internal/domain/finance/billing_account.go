package finance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

var ErrBillingAccountNotFound = errors.New("finance: billing account not found")

// BillingAccount extends store credit to a party. The computed balance is
// refreshed by a background worker rather than on every read.
type BillingAccount struct {
	shared.BaseAggregateRoot
	AccountNumber string
	PartyID       uuid.UUID
	CreditLimit   valueobject.Money
	// Balance is the last computed outstanding amount, denormalized
	Balance     decimal.Decimal
	BalanceAsOf *time.Time
	ThruDate    *time.Time
	Description string
}

// NewBillingAccount creates a billing account with the given credit limit
func NewBillingAccount(accountNumber string, partyID uuid.UUID, creditLimit valueobject.Money) (*BillingAccount, error) {
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if creditLimit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	return &BillingAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountNumber:     accountNumber,
		PartyID:           partyID,
		CreditLimit:       creditLimit,
		Balance:           decimal.Zero,
	}, nil
}

// IsActive reports whether the account can take new charges
func (b *BillingAccount) IsActive(now time.Time) bool {
	return b.ThruDate == nil || b.ThruDate.After(now)
}

// ComputeBalance derives the outstanding balance from its three inputs:
// amounts applied to unpaid invoices, minus payments received on the
// account, plus grand totals of open orders charged to it. The result is
// clamped to the credit limit; a balance can never exceed what was
// extended.
func (b *BillingAccount) ComputeBalance(appliedToUnpaidInvoices, paymentsReceived, openOrderTotals decimal.Decimal) decimal.Decimal {
	balance := appliedToUnpaidInvoices.Sub(paymentsReceived).Add(openOrderTotals)
	if balance.GreaterThan(b.CreditLimit.Amount()) {
		balance = b.CreditLimit.Amount()
	}
	return balance
}

// RefreshBalance recomputes and stores the balance
func (b *BillingAccount) RefreshBalance(appliedToUnpaidInvoices, paymentsReceived, openOrderTotals decimal.Decimal, asOf time.Time) {
	b.Balance = b.ComputeBalance(appliedToUnpaidInvoices, paymentsReceived, openOrderTotals)
	b.BalanceAsOf = &asOf
	b.Touch()
}

// AvailableCredit returns the credit limit minus the stored balance,
// floored at zero
func (b *BillingAccount) AvailableCredit() decimal.Decimal {
	avail := b.CreditLimit.Amount().Sub(b.Balance)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}
