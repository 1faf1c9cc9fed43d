package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineKind tags a statement line as an invoice or a payment
type LineKind string

const (
	LineInvoice LineKind = "INV"
	LinePayment LineKind = "PMT"
)

// AgingOptions controls how statements partition outstanding balances
type AgingOptions struct {
	// AsOfDate is the reference "today" for aging
	AsOfDate time.Time
	// BucketDays is the width of each aging bucket in days
	BucketDays int
	// BucketCount is the number of buckets; older balances collect in the
	// last bucket
	BucketCount int
	// UseAgingDate ages invoices from their explicit aging date when one
	// is set instead of the invoice date
	UseAgingDate bool
	// PeriodStart includes recently closed invoices and payments received
	// since this date as informational lines. Zero disables period
	// activity.
	PeriodStart time.Time
}

// DefaultAgingOptions returns the conventional 30-day, 5-bucket layout
func DefaultAgingOptions(asOf time.Time) AgingOptions {
	return AgingOptions{
		AsOfDate:     asOf,
		BucketDays:   30,
		BucketCount:  5,
		UseAgingDate: true,
	}
}

// StatementLine is a single row on a party statement
type StatementLine struct {
	Kind      LineKind
	Date      time.Time
	Reference string // invoice or payment number
	Amount    decimal.Decimal
	Bucket    int  // aging bucket index, -1 for payment and closed lines
	Open      bool // false for period-activity lines on closed documents
}

// sortKey orders lines chronologically with invoices before payments on
// the same day, then by reference
func (l StatementLine) sortKey() string {
	kind := "0"
	if l.Kind == LinePayment {
		kind = "1"
	}
	return fmt.Sprintf("%s|%s|%s", l.Date.Format("20060102"), kind, l.Reference)
}

// Statement is one party's aged receivable position
type Statement struct {
	PartyID      uuid.UUID
	AsOfDate     time.Time
	Lines        []StatementLine
	BucketTotals []decimal.Decimal
	TotalDue     decimal.Decimal
	// PastDue is true when any outstanding balance has aged beyond the
	// first bucket
	PastDue bool
}

// BucketIndex maps an age in days to a bucket, clamping at the last bucket
func (o AgingOptions) BucketIndex(ageDays int) int {
	if ageDays < 0 {
		ageDays = 0
	}
	idx := ageDays / o.BucketDays
	if idx >= o.BucketCount {
		idx = o.BucketCount - 1
	}
	return idx
}

// ageDays returns whole days elapsed from the reference date to asOf
func ageDays(from, asOf time.Time) int {
	return int(asOf.Sub(from).Hours() / 24)
}

func (o AgingOptions) agingDate(inv *Invoice) time.Time {
	if o.UseAgingDate {
		return inv.EffectiveAgingDate()
	}
	return inv.InvoiceDate
}

// BuildStatements partitions the given invoices and payments into per-party
// statements. Outstanding invoices are aged into buckets net of applied
// payments; unapplied payment remainders reduce the total due without
// aging. When PeriodStart is set, invoices closed and payments received
// during the period appear as informational lines. Statements are returned
// in stable party order and lines within a statement are sorted by date,
// kind and reference.
func BuildStatements(invoices []*Invoice, payments []*Payment, opts AgingOptions) []*Statement {
	appliedByInvoice := make(map[uuid.UUID]decimal.Decimal)
	for _, pmt := range payments {
		for _, app := range pmt.Applications {
			appliedByInvoice[app.InvoiceID] = appliedByInvoice[app.InvoiceID].Add(app.Amount)
		}
	}

	byParty := make(map[uuid.UUID]*Statement)
	partyOrder := make([]uuid.UUID, 0)
	stmt := func(partyID uuid.UUID) *Statement {
		if s, ok := byParty[partyID]; ok {
			return s
		}
		s := &Statement{
			PartyID:      partyID,
			AsOfDate:     opts.AsOfDate,
			Lines:        make([]StatementLine, 0),
			BucketTotals: make([]decimal.Decimal, opts.BucketCount),
		}
		byParty[partyID] = s
		partyOrder = append(partyOrder, partyID)
		return s
	}

	for _, inv := range invoices {
		if inv.IsOutstanding() {
			// invoices dated past the reference date belong to a later
			// statement
			if opts.agingDate(inv).After(opts.AsOfDate) {
				continue
			}
			due := inv.AmountDue(appliedByInvoice[inv.ID])
			if due.IsZero() {
				continue
			}
			s := stmt(inv.PartyID)
			bucket := opts.BucketIndex(ageDays(opts.agingDate(inv), opts.AsOfDate))
			s.Lines = append(s.Lines, StatementLine{
				Kind:      LineInvoice,
				Date:      inv.InvoiceDate,
				Reference: inv.InvoiceNumber,
				Amount:    due,
				Bucket:    bucket,
				Open:      true,
			})
			s.BucketTotals[bucket] = s.BucketTotals[bucket].Add(due)
			s.TotalDue = s.TotalDue.Add(due)
			if bucket > 0 {
				s.PastDue = true
			}
			continue
		}
		// closed during the statement period, shown for reference only
		if !opts.PeriodStart.IsZero() && inv.PaidDate != nil && !inv.PaidDate.Before(opts.PeriodStart) {
			s := stmt(inv.PartyID)
			s.Lines = append(s.Lines, StatementLine{
				Kind:      LineInvoice,
				Date:      inv.InvoiceDate,
				Reference: inv.InvoiceNumber,
				Amount:    inv.Total.Amount(),
				Bucket:    -1,
			})
		}
	}

	for _, pmt := range payments {
		unapplied := pmt.UnappliedAmount()
		if unapplied.IsPositive() {
			s := stmt(pmt.PartyID)
			s.Lines = append(s.Lines, StatementLine{
				Kind:      LinePayment,
				Date:      pmt.EffectiveDate,
				Reference: pmt.PaymentNumber,
				Amount:    unapplied.Neg(),
				Bucket:    -1,
				Open:      true,
			})
			s.TotalDue = s.TotalDue.Sub(unapplied)
		} else if !opts.PeriodStart.IsZero() && !pmt.EffectiveDate.Before(opts.PeriodStart) {
			s := stmt(pmt.PartyID)
			s.Lines = append(s.Lines, StatementLine{
				Kind:      LinePayment,
				Date:      pmt.EffectiveDate,
				Reference: pmt.PaymentNumber,
				Amount:    pmt.Amount.Amount().Neg(),
				Bucket:    -1,
			})
		}
	}

	out := make([]*Statement, 0, len(partyOrder))
	for _, partyID := range partyOrder {
		s := byParty[partyID]
		sort.Slice(s.Lines, func(i, j int) bool {
			return s.Lines[i].sortKey() < s.Lines[j].sortKey()
		})
		out = append(out, s)
	}
	return out
}

// FinanceChargeRate is an annual simple-interest rate applied to past-due
// balances
type FinanceChargeRate struct {
	AnnualRate decimal.Decimal
	// GraceDays is the age below which no charge accrues
	GraceDays int
}

// ComputeFinanceCharge returns the simple-interest charge on an invoice's
// remaining balance: balance * rate * overdueDays / 365, rounded half up
// to cents. Invoices inside the grace period accrue nothing.
func (r FinanceChargeRate) ComputeFinanceCharge(inv *Invoice, applied decimal.Decimal, asOf time.Time) decimal.Decimal {
	if !inv.IsOutstanding() {
		return decimal.Zero
	}
	days := ageDays(inv.EffectiveAgingDate(), asOf)
	if days <= r.GraceDays {
		return decimal.Zero
	}
	balance := inv.AmountDue(applied)
	if !balance.IsPositive() {
		return decimal.Zero
	}
	overdue := decimal.NewFromInt(int64(days - r.GraceDays))
	return balance.Mul(r.AnnualRate).Mul(overdue).
		Div(decimal.NewFromInt(365)).
		Round(2)
}
