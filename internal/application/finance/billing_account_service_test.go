package financeapp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/finance"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testAccount(t *testing.T, limit string) *finance.BillingAccount {
	t.Helper()
	acct, err := finance.NewBillingAccount("BA-1001", uuid.New(), usd(t, limit))
	require.NoError(t, err)
	return acct
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("combines the three balance sources", func(t *testing.T) {
		accountRepo := new(MockBillingAccountRepository)
		paymentRepo := new(MockPaymentRepository)
		orderRepo := new(MockOrderRepository)

		acct := testAccount(t, "500.00")
		accountRepo.On("FindByID", ctx, acct.ID).Return(acct, nil)
		paymentRepo.On("SumAppliedToUnpaidInvoicesByBillingAccount", ctx, acct.ID).Return(dec("120.00"), nil)
		paymentRepo.On("SumReceivedByBillingAccount", ctx, acct.ID).Return(dec("50.00"), nil)
		orderRepo.On("SumOpenOrderTotalsByBillingAccount", ctx, acct.ID).Return(dec("80.00"), nil)

		svc := NewBillingAccountService(accountRepo, paymentRepo, orderRepo, zap.NewNop())
		resp, err := svc.GetBalance(ctx, acct.ID)
		require.NoError(t, err)

		assert.True(t, resp.Balance.Equal(dec("150.00")))
		assert.True(t, resp.AvailableCredit.Equal(dec("350.00")))
	})

	t.Run("balance capped at the credit limit", func(t *testing.T) {
		accountRepo := new(MockBillingAccountRepository)
		paymentRepo := new(MockPaymentRepository)
		orderRepo := new(MockOrderRepository)

		acct := testAccount(t, "100.00")
		accountRepo.On("FindByID", ctx, acct.ID).Return(acct, nil)
		paymentRepo.On("SumAppliedToUnpaidInvoicesByBillingAccount", ctx, acct.ID).Return(dec("900.00"), nil)
		paymentRepo.On("SumReceivedByBillingAccount", ctx, acct.ID).Return(decimal.Zero, nil)
		orderRepo.On("SumOpenOrderTotalsByBillingAccount", ctx, acct.ID).Return(decimal.Zero, nil)

		svc := NewBillingAccountService(accountRepo, paymentRepo, orderRepo, zap.NewNop())
		resp, err := svc.GetBalance(ctx, acct.ID)
		require.NoError(t, err)

		assert.True(t, resp.Balance.Equal(dec("100.00")))
		assert.True(t, resp.AvailableCredit.IsZero())
	})
}

func TestRefreshBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes every active account", func(t *testing.T) {
		accountRepo := new(MockBillingAccountRepository)
		paymentRepo := new(MockPaymentRepository)
		orderRepo := new(MockOrderRepository)

		a := testAccount(t, "500.00")
		b := testAccount(t, "200.00")
		accountRepo.On("FindActive", ctx, mock.AnythingOfType("time.Time")).
			Return([]*finance.BillingAccount{a, b}, nil)
		paymentRepo.On("SumAppliedToUnpaidInvoicesByBillingAccount", ctx, mock.Anything).Return(dec("60.00"), nil)
		paymentRepo.On("SumReceivedByBillingAccount", ctx, mock.Anything).Return(dec("10.00"), nil)
		orderRepo.On("SumOpenOrderTotalsByBillingAccount", ctx, mock.Anything).Return(dec("25.00"), nil)
		accountRepo.On("Save", ctx, mock.Anything).Return(nil)

		svc := NewBillingAccountService(accountRepo, paymentRepo, orderRepo, zap.NewNop())
		result, err := svc.RefreshBalances(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Refreshed)
		assert.True(t, a.Balance.Equal(dec("75.00")))
		require.NotNil(t, a.BalanceAsOf)
	})

	t.Run("one failing account does not stop the sweep", func(t *testing.T) {
		accountRepo := new(MockBillingAccountRepository)
		paymentRepo := new(MockPaymentRepository)
		orderRepo := new(MockOrderRepository)

		a := testAccount(t, "500.00")
		b := testAccount(t, "200.00")
		accountRepo.On("FindActive", ctx, mock.AnythingOfType("time.Time")).
			Return([]*finance.BillingAccount{a, b}, nil)
		paymentRepo.On("SumAppliedToUnpaidInvoicesByBillingAccount", ctx, a.ID).
			Return(decimal.Zero, errors.New("db timeout"))
		paymentRepo.On("SumAppliedToUnpaidInvoicesByBillingAccount", ctx, b.ID).Return(dec("20.00"), nil)
		paymentRepo.On("SumReceivedByBillingAccount", ctx, b.ID).Return(decimal.Zero, nil)
		orderRepo.On("SumOpenOrderTotalsByBillingAccount", ctx, b.ID).Return(decimal.Zero, nil)
		accountRepo.On("Save", ctx, b).Return(nil)

		svc := NewBillingAccountService(accountRepo, paymentRepo, orderRepo, zap.NewNop())
		result, err := svc.RefreshBalances(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Refreshed)
		assert.Equal(t, 1, result.Failed)
	})
}
