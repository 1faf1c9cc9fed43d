package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// Item is a single order line. ExternalItemID is the marketplace's line
// identifier and links acknowledgment results back to the source document.
// Subtotal carries the raw price of the line; UnitPrice is the rounded
// per-unit figure and is display data, not an input to order totals.
type Item struct {
	shared.BaseEntity
	OrderID        uuid.UUID
	SequenceID     int
	ProductID      uuid.UUID
	ExternalItemID string
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Subtotal       decimal.Decimal
}

// NewItem creates an order line item priced at unit price times quantity
func NewItem(productID uuid.UUID, externalItemID, description string, quantity, unitPrice decimal.Decimal) Item {
	return Item{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		ExternalItemID: externalItemID,
		Description:    description,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		Subtotal:       unitPrice.Mul(quantity),
	}
}

// WithSubtotal replaces the line subtotal with the exact priced amount.
// Marketplace lines are priced by their raw components, which a rounded
// unit price times quantity cannot always reproduce.
func (i Item) WithSubtotal(subtotal decimal.Decimal) Item {
	i.Subtotal = subtotal
	return i
}

// LineTotal returns the raw subtotal for this line
func (i Item) LineTotal() decimal.Decimal {
	return i.Subtotal
}
