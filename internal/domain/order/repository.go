package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByExternalID is the idempotency check for imported orders.
	// Returns shared.ErrNotFound when the external id is unknown.
	FindByExternalID(ctx context.Context, externalOrderID string) (*Order, error)
	Save(ctx context.Context, o *Order) error
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)
	Count(ctx context.Context) (int64, error)
	// SumOpenOrderTotalsByBillingAccount returns the grand total sum of
	// orders in CREATED or APPROVED status charged to the billing account
	SumOpenOrderTotalsByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error)
}

// OrderNumberService hands out the next internal order number.
// Implementations draw from a persistent sequence and numbers are never
// reused, so an import that fails after drawing a number leaves a gap.
type OrderNumberService interface {
	NextOrderNumber(ctx context.Context) (string, error)
}
