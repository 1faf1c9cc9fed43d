package financeapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/order"
	"github.com/sellercentric/backend/internal/domain/shared"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*finance.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindOutstandingByParty(ctx context.Context, partyID uuid.UUID) ([]*finance.Invoice, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindForStatements(ctx context.Context, periodStart time.Time, partyIDs []uuid.UUID) ([]*finance.Invoice, error) {
	args := m.Called(ctx, periodStart, partyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Invoice), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *finance.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]*finance.Payment, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindForStatements(ctx context.Context, periodStart time.Time, partyIDs []uuid.UUID) ([]*finance.Payment, error) {
	args := m.Called(ctx, periodStart, partyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumReceivedByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, billingAccountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SumAppliedToUnpaidInvoicesByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, billingAccountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockBillingAccountRepository struct {
	mock.Mock
}

func (m *MockBillingAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.BillingAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BillingAccount), args.Error(1)
}

func (m *MockBillingAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*finance.BillingAccount, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BillingAccount), args.Error(1)
}

func (m *MockBillingAccountRepository) Save(ctx context.Context, b *finance.BillingAccount) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBillingAccountRepository) FindActive(ctx context.Context, now time.Time) ([]*finance.BillingAccount, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.BillingAccount), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) SumOpenOrderTotalsByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, billingAccountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
