package financeapp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// StatementLineResponse is one row on a rendered statement
type StatementLineResponse struct {
	Kind      string          `json:"kind"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Bucket    int             `json:"bucket"`
	Open      bool            `json:"open"`
}

// StatementResponse is one party's aged receivable statement
type StatementResponse struct {
	PartyID      uuid.UUID               `json:"party_id"`
	AsOfDate     time.Time               `json:"as_of_date"`
	BucketTotals []decimal.Decimal       `json:"bucket_totals"`
	TotalDue     decimal.Decimal         `json:"total_due"`
	PastDue      bool                    `json:"past_due"`
	Lines        []StatementLineResponse `json:"lines"`
}

// StatementReportResponse is the full aging run output
type StatementReportResponse struct {
	AsOfDate    time.Time           `json:"as_of_date"`
	BucketDays  int                 `json:"bucket_days"`
	BucketCount int                 `json:"bucket_count"`
	Statements  []StatementResponse `json:"statements"`
	TotalDue    decimal.Decimal     `json:"total_due"`
}

// StatementRequest selects the aging run parameters. An empty PartyIDs
// slice runs the statement for every party with activity.
type StatementRequest struct {
	AsOfDate     time.Time   `json:"as_of_date"`
	BucketDays   int         `json:"bucket_days"`
	BucketCount  int         `json:"bucket_count"`
	UseAgingDate *bool       `json:"use_aging_date,omitempty"`
	PeriodDays   int         `json:"period_days"`
	PartyIDs     []uuid.UUID `json:"party_ids,omitempty"`
}

// StatementService runs the aging engine over persisted invoices and
// payments
type StatementService struct {
	invoiceRepo finance.InvoiceRepository
	paymentRepo finance.PaymentRepository
	logger      *zap.Logger
}

// NewStatementService creates a new StatementService
func NewStatementService(
	invoiceRepo finance.InvoiceRepository,
	paymentRepo finance.PaymentRepository,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// BuildStatements produces per-party aged statements as of the requested
// date
func (s *StatementService) BuildStatements(ctx context.Context, req StatementRequest) (*StatementReportResponse, error) {
	opts := finance.DefaultAgingOptions(req.AsOfDate)
	if opts.AsOfDate.IsZero() {
		opts.AsOfDate = time.Now()
	}
	if req.BucketDays > 0 {
		opts.BucketDays = req.BucketDays
	}
	if req.BucketCount > 0 {
		opts.BucketCount = req.BucketCount
	}
	if req.UseAgingDate != nil {
		opts.UseAgingDate = *req.UseAgingDate
	}
	if req.PeriodDays > 0 {
		opts.PeriodStart = opts.AsOfDate.AddDate(0, 0, -req.PeriodDays)
	}

	invoices, err := s.invoiceRepo.FindForStatements(ctx, opts.PeriodStart, req.PartyIDs)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	payments, err := s.paymentRepo.FindForStatements(ctx, opts.PeriodStart, req.PartyIDs)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	statements := finance.BuildStatements(invoices, payments, opts)

	resp := &StatementReportResponse{
		AsOfDate:    opts.AsOfDate,
		BucketDays:  opts.BucketDays,
		BucketCount: opts.BucketCount,
		Statements:  make([]StatementResponse, 0, len(statements)),
		TotalDue:    decimal.Zero,
	}
	for _, stmt := range statements {
		resp.Statements = append(resp.Statements, toStatementResponse(stmt))
		resp.TotalDue = resp.TotalDue.Add(stmt.TotalDue)
	}

	s.logger.Info("Statement run completed",
		zap.Time("as_of", opts.AsOfDate),
		zap.Int("parties", len(statements)),
		zap.String("total_due", resp.TotalDue.String()))
	return resp, nil
}

// AssessFinanceCharges creates one FINANCE_CHARGE invoice per overdue
// invoice for the given party, using simple interest on the open balance
func (s *StatementService) AssessFinanceCharges(ctx context.Context, partyID uuid.UUID, rate finance.FinanceChargeRate, asOf time.Time) ([]*finance.Invoice, error) {
	outstanding, err := s.invoiceRepo.FindOutstandingByParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("load outstanding invoices: %w", err)
	}
	payments, err := s.paymentRepo.FindByParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	applied := make(map[uuid.UUID]decimal.Decimal)
	for _, pmt := range payments {
		for _, app := range pmt.Applications {
			applied[app.InvoiceID] = applied[app.InvoiceID].Add(app.Amount)
		}
	}

	charges := make([]*finance.Invoice, 0)
	for _, inv := range outstanding {
		amount := rate.ComputeFinanceCharge(inv, applied[inv.ID], asOf)
		if amount.IsZero() {
			continue
		}
		chargeTotal, err := valueobject.NewMoney(amount, inv.Total.Currency())
		if err != nil {
			return nil, err
		}
		charge, err := finance.NewInvoice(
			fmt.Sprintf("FC-%s", inv.InvoiceNumber),
			finance.InvoiceFinanceCharge,
			partyID,
			asOf,
			chargeTotal,
		)
		if err != nil {
			return nil, err
		}
		charge.Description = fmt.Sprintf("Finance charge on %s", inv.InvoiceNumber)
		if err := s.invoiceRepo.Save(ctx, charge); err != nil {
			return nil, fmt.Errorf("save finance charge for %s: %w", inv.InvoiceNumber, err)
		}
		charges = append(charges, charge)
	}

	s.logger.Info("Finance charges assessed",
		zap.String("party_id", partyID.String()),
		zap.Int("charges", len(charges)))
	return charges, nil
}

func toStatementResponse(stmt *finance.Statement) StatementResponse {
	lines := make([]StatementLineResponse, 0, len(stmt.Lines))
	for _, l := range stmt.Lines {
		lines = append(lines, StatementLineResponse{
			Kind:      string(l.Kind),
			Date:      l.Date,
			Reference: l.Reference,
			Amount:    l.Amount,
			Bucket:    l.Bucket,
			Open:      l.Open,
		})
	}
	return StatementResponse{
		PartyID:      stmt.PartyID,
		AsOfDate:     stmt.AsOfDate,
		BucketTotals: stmt.BucketTotals,
		TotalDue:     stmt.TotalDue,
		PastDue:      stmt.PastDue,
		Lines:        lines,
	}
}
