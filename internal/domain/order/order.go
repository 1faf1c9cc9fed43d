package order

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

var (
	ErrOrderNotFound  = errors.New("order: order not found")
	ErrEmptyOrder     = errors.New("order: order must contain at least one item")
	ErrInvalidStatus  = errors.New("order: invalid status transition")
	ErrDuplicateOrder = errors.New("order: external order already imported")
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusApproved  Status = "APPROVED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusApproved, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// SalesChannel identifies where an order originated
type SalesChannel string

const (
	ChannelMarketplace SalesChannel = "MARKETPLACE"
	ChannelDirect      SalesChannel = "DIRECT"
)

// Order is the aggregate root for a sales order. Orders imported from the
// marketplace carry the external order id as their idempotency key and an
// internally assigned order number.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber      string
	ExternalOrderID  string
	SalesChannel     SalesChannel
	Status           Status
	PartyID          uuid.UUID
	BillingAccountID *uuid.UUID
	Currency         valueobject.Currency
	Items            []Item
	Adjustments      []Adjustment
	ShipGroup        ShipGroup
}

// NewOrder creates an order in CREATED status
func NewOrder(orderNumber, externalOrderID string, channel SalesChannel, partyID uuid.UUID, currency valueobject.Currency) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		ExternalOrderID:   strings.TrimSpace(externalOrderID),
		SalesChannel:      channel,
		Status:            StatusCreated,
		PartyID:           partyID,
		Currency:          currency,
		Items:             make([]Item, 0),
		Adjustments:       make([]Adjustment, 0),
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// AddItem appends a line item to the order
func (o *Order) AddItem(item Item) *Item {
	item.OrderID = o.ID
	item.SequenceID = len(o.Items) + 1
	o.Items = append(o.Items, item)
	o.Touch()
	return &o.Items[len(o.Items)-1]
}

// AddAdjustment appends an order-level or item-level adjustment
func (o *Order) AddAdjustment(adj Adjustment) {
	adj.OrderID = o.ID
	o.Adjustments = append(o.Adjustments, adj)
	o.Touch()
}

// ItemSubtotal returns the sum of raw line subtotals over all items
func (o *Order) ItemSubtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// AdjustmentTotal returns the signed sum of all adjustment amounts.
// Promotions are negative, shipping charges and taxes positive.
func (o *Order) AdjustmentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, adj := range o.Adjustments {
		total = total.Add(adj.Amount)
	}
	return total
}

// GrandTotal returns the order total as the raw item subtotal plus signed
// adjustments, rounded half-up to two decimal places once at the end
func (o *Order) GrandTotal() valueobject.Money {
	raw := o.ItemSubtotal().Add(o.AdjustmentTotal())
	m, _ := valueobject.NewMoney(raw, o.Currency)
	return m.Round(valueobject.DefaultScale)
}

// Approve moves the order from CREATED to APPROVED
func (o *Order) Approve() error {
	if o.Status != StatusCreated {
		return ErrInvalidStatus
	}
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	o.Status = StatusApproved
	o.Touch()
	o.AddDomainEvent(NewOrderApprovedEvent(o))
	return nil
}

// Cancel terminates the order. Completed orders cannot be cancelled.
func (o *Order) Cancel() error {
	if o.Status == StatusCompleted || o.Status == StatusCancelled {
		return ErrInvalidStatus
	}
	o.Status = StatusCancelled
	o.Touch()
	return nil
}

// IsOpen reports whether the order still counts against a billing
// account's balance
func (o *Order) IsOpen() bool {
	return o.Status == StatusCreated || o.Status == StatusApproved
}
