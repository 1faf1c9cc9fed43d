package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	financeapp "github.com/sellercentric/backend/internal/application/finance"
	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/interfaces/http/dto"
)

// BalanceReader serves billing account balance queries and refreshes
type BalanceReader interface {
	GetBalance(ctx context.Context, accountID uuid.UUID) (*financeapp.BalanceResponse, error)
	RefreshBalances(ctx context.Context) (*financeapp.RefreshResult, error)
}

// StatementBuilder runs the receivable aging engine
type StatementBuilder interface {
	BuildStatements(ctx context.Context, req financeapp.StatementRequest) (*financeapp.StatementReportResponse, error)
	AssessFinanceCharges(ctx context.Context, partyID uuid.UUID, rate finance.FinanceChargeRate, asOf time.Time) ([]*finance.Invoice, error)
}

// FinanceHandler serves billing account and statement endpoints
type FinanceHandler struct {
	BaseHandler
	balances          BalanceReader
	statements        StatementBuilder
	statementDefaults financeapp.StatementRequest
	chargeDefaults    finance.FinanceChargeRate
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(balances BalanceReader, statements StatementBuilder) *FinanceHandler {
	return &FinanceHandler{
		balances:   balances,
		statements: statements,
	}
}

// SetStatementDefaults installs deployment defaults applied when a
// statement request leaves bucket or period parameters unset
func (h *FinanceHandler) SetStatementDefaults(defaults financeapp.StatementRequest) {
	h.statementDefaults = defaults
}

// SetFinanceChargeDefaults installs the configured finance charge rate,
// applied when an assessment request omits its own
func (h *FinanceHandler) SetFinanceChargeDefaults(rate finance.FinanceChargeRate) {
	h.chargeDefaults = rate
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/billing-accounts")
	{
		accounts.GET("/:id/balance", h.GetBalance)
		accounts.POST("/refresh", h.RefreshBalances)
	}

	rg.POST("/statements", h.BuildStatements)
	rg.POST("/finance-charges", h.AssessFinanceCharges)
}

// GetBalance returns the current balance of one billing account
func (h *FinanceHandler) GetBalance(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	balance, err := h.balances.GetBalance(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// RefreshBalances recomputes every active billing account balance
func (h *FinanceHandler) RefreshBalances(c *gin.Context) {
	result, err := h.balances.RefreshBalances(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BuildStatements runs the aging engine and returns per-party statements
func (h *FinanceHandler) BuildStatements(c *gin.Context) {
	var req dto.StatementReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	appReq := h.statementDefaults
	appReq.AsOfDate = time.Time{}
	if req.AsOfDate != nil {
		appReq.AsOfDate = *req.AsOfDate
	}
	if req.BucketDays > 0 {
		appReq.BucketDays = req.BucketDays
	}
	if req.BucketCount > 0 {
		appReq.BucketCount = req.BucketCount
	}
	if req.PeriodDays > 0 {
		appReq.PeriodDays = req.PeriodDays
	}
	if len(req.PartyIDs) > 0 {
		appReq.PartyIDs = make([]uuid.UUID, 0, len(req.PartyIDs))
		for _, id := range req.PartyIDs {
			appReq.PartyIDs = append(appReq.PartyIDs, uuid.MustParse(id))
		}
	}

	report, err := h.statements.BuildStatements(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// FinanceChargeResponse summarizes one finance charge assessment
type FinanceChargeResponse struct {
	PartyID  uuid.UUID `json:"party_id"`
	AsOf     time.Time `json:"as_of"`
	Assessed int       `json:"assessed"`
	Invoices []string  `json:"invoices"`
}

// AssessFinanceCharges applies finance charges to a party's overdue invoices
func (h *FinanceHandler) AssessFinanceCharges(c *gin.Context) {
	var req dto.FinanceChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	rate := h.chargeDefaults
	if req.AnnualRate != "" {
		annualRate, err := decimal.NewFromString(req.AnnualRate)
		if err != nil {
			h.BadRequest(c, "Invalid annual rate: "+req.AnnualRate)
			return
		}
		rate.AnnualRate = annualRate
	}
	if req.GraceDays > 0 {
		rate.GraceDays = req.GraceDays
	}
	if rate.AnnualRate.IsZero() {
		h.BadRequest(c, "No annual rate supplied and no default configured")
		return
	}

	asOf := time.Now().UTC()
	if req.AsOfDate != nil {
		asOf = *req.AsOfDate
	}

	partyID := uuid.MustParse(req.PartyID)
	invoices, err := h.statements.AssessFinanceCharges(c.Request.Context(), partyID, rate, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	numbers := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		numbers = append(numbers, inv.InvoiceNumber)
	}

	h.Success(c, FinanceChargeResponse{
		PartyID:  partyID,
		AsOf:     asOf,
		Assessed: len(invoices),
		Invoices: numbers,
	})
}
