package financeapp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/order"
)

// BalanceResponse reports a billing account's standing
type BalanceResponse struct {
	AccountNumber   string          `json:"account_number"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	Balance         decimal.Decimal `json:"balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	AsOf            time.Time       `json:"as_of"`
}

// RefreshResult summarizes one balance refresh sweep
type RefreshResult struct {
	Accounts  int `json:"accounts"`
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

// BillingAccountService computes and refreshes billing account balances.
// The balance combines three sources: payment applications against still
// unpaid invoices, payments received on the account, and grand totals of
// open orders charged to it.
type BillingAccountService struct {
	accountRepo finance.BillingAccountRepository
	paymentRepo finance.PaymentRepository
	orderRepo   order.OrderRepository
	logger      *zap.Logger
}

// NewBillingAccountService creates a new BillingAccountService
func NewBillingAccountService(
	accountRepo finance.BillingAccountRepository,
	paymentRepo finance.PaymentRepository,
	orderRepo order.OrderRepository,
	logger *zap.Logger,
) *BillingAccountService {
	return &BillingAccountService{
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// GetBalance computes the account's current standing without persisting it
func (s *BillingAccountService) GetBalance(ctx context.Context, accountID uuid.UUID) (*BalanceResponse, error) {
	acct, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := s.computeBalance(ctx, acct)
	if err != nil {
		return nil, err
	}
	available := acct.CreditLimit.Amount().Sub(balance)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return &BalanceResponse{
		AccountNumber:   acct.AccountNumber,
		CreditLimit:     acct.CreditLimit.Amount(),
		Balance:         balance,
		AvailableCredit: available,
		AsOf:            time.Now(),
	}, nil
}

// RefreshBalances recomputes and stores the balance of every active
// account. Used by the background worker; one account failing does not
// stop the sweep.
func (s *BillingAccountService) RefreshBalances(ctx context.Context) (*RefreshResult, error) {
	now := time.Now()
	accounts, err := s.accountRepo.FindActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load active accounts: %w", err)
	}

	result := &RefreshResult{Accounts: len(accounts)}
	for _, acct := range accounts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		balance, err := s.computeBalance(ctx, acct)
		if err != nil {
			result.Failed++
			s.logger.Error("Balance refresh failed",
				zap.String("account_number", acct.AccountNumber),
				zap.Error(err))
			continue
		}
		acct.Balance = balance
		acct.BalanceAsOf = &now
		if err := s.accountRepo.Save(ctx, acct); err != nil {
			result.Failed++
			s.logger.Error("Balance save failed",
				zap.String("account_number", acct.AccountNumber),
				zap.Error(err))
			continue
		}
		result.Refreshed++
	}

	s.logger.Info("Billing account balances refreshed",
		zap.Int("accounts", result.Accounts),
		zap.Int("refreshed", result.Refreshed),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *BillingAccountService) computeBalance(ctx context.Context, acct *finance.BillingAccount) (decimal.Decimal, error) {
	applied, err := s.paymentRepo.SumAppliedToUnpaidInvoicesByBillingAccount(ctx, acct.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum applied payments: %w", err)
	}
	received, err := s.paymentRepo.SumReceivedByBillingAccount(ctx, acct.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum received payments: %w", err)
	}
	openOrders, err := s.orderRepo.SumOpenOrderTotalsByBillingAccount(ctx, acct.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum open orders: %w", err)
	}
	return acct.ComputeBalance(applied, received, openOrders), nil
}
