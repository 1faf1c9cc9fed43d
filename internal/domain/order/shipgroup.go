package order

import (
	"github.com/google/uuid"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// ShipGroup carries the shipment method and destination for an order.
// Imported orders have a single ship group.
type ShipGroup struct {
	shared.BaseEntity
	OrderID          uuid.UUID
	ShipmentMethod   string
	CarrierPartyName string
	PostalAddressID  *uuid.UUID
	PhoneContactID   *uuid.UUID
	MaySplit         bool
}

// NewShipGroup creates a ship group for the given shipment method
func NewShipGroup(shipmentMethod, carrierPartyName string) ShipGroup {
	return ShipGroup{
		BaseEntity:       shared.NewBaseEntity(),
		ShipmentMethod:   shipmentMethod,
		CarrierPartyName: carrierPartyName,
	}
}

// SetShipGroup attaches the ship group to the order
func (o *Order) SetShipGroup(sg ShipGroup) {
	sg.OrderID = o.ID
	o.ShipGroup = sg
	o.Touch()
}
