package order

import (
	"github.com/sellercentric/backend/internal/domain/shared"
)

// OrderCreatedEvent is published when an order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber     string `json:"order_number"`
	ExternalOrderID string `json:"external_order_id"`
	SalesChannel    string `json:"sales_channel"`
}

// NewOrderCreatedEvent creates a new order created event
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("order.created", o.ID, "Order"),
		OrderNumber:     o.OrderNumber,
		ExternalOrderID: o.ExternalOrderID,
		SalesChannel:    string(o.SalesChannel),
	}
}

// OrderApprovedEvent is published when an order is approved
type OrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	GrandTotal  string `json:"grand_total"`
}

// NewOrderApprovedEvent creates a new order approved event
func NewOrderApprovedEvent(o *Order) *OrderApprovedEvent {
	return &OrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("order.approved", o.ID, "Order"),
		OrderNumber:     o.OrderNumber,
		GrandTotal:      o.GrandTotal().String(),
	}
}
