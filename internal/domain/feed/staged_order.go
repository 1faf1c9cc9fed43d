package feed

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// OrderImportStatus tracks a staged order from extraction through import
type OrderImportStatus string

const (
	// ImportCreated means extracted and waiting to be imported
	ImportCreated OrderImportStatus = "CREATED"
	// ImportError means the last import attempt failed
	ImportError OrderImportStatus = "IMPORT_ERROR"
	// ImportImported means an internal order exists for this staging row
	ImportImported OrderImportStatus = "IMPORTED"
)

// IsValid returns true if the import status is valid
func (s OrderImportStatus) IsValid() bool {
	switch s {
	case ImportCreated, ImportError, ImportImported:
		return true
	}
	return false
}

// String returns the string representation of OrderImportStatus
func (s OrderImportStatus) String() string {
	return string(s)
}

// StagedOrder is one order extracted from a staged document, held in
// marketplace-native shape until import resolves it into internal
// entities. Staging rows are unique by external order id.
type StagedOrder struct {
	shared.BaseAggregateRoot
	DocumentID      uuid.UUID
	ExternalOrderID string
	Status          OrderImportStatus
	OrderDate       time.Time

	BuyerName  string
	BuyerEmail string
	BuyerPhone string

	ShipToName       string
	ShipAddress1     string
	ShipAddress2     string
	ShipCity         string
	ShipState        string
	ShipCountry      string
	ShipPostalCode   string
	ShipPhone        string
	ShipmentMethod   string
	FulfillmentClass string

	CurrencyCode string
	Items        []StagedOrderItem

	// ImportedOrderID links to the internal order once import succeeds
	ImportedOrderID *uuid.UUID
	ImportedAt      *time.Time
	FailureCount    int
	LastError       string
}

// StagedOrderItem is a marketplace order line with its price components
type StagedOrderItem struct {
	shared.BaseEntity
	StagedOrderID  uuid.UUID
	ExternalItemID string
	ProductCode    string // SKU or UPC depending on marketplace settings
	Description    string
	Quantity       decimal.Decimal
	Components     []StagedPriceComponent
	Taxes          []StagedTax
	Promotions     []StagedPromo
	Fees           []StagedFee
}

// StagedPriceComponent is a priced part of an order line, e.g. Principal
// or Shipping
type StagedPriceComponent struct {
	Kind   string
	Amount decimal.Decimal
}

// StagedTax is a collected tax with the jurisdiction it was collected for
type StagedTax struct {
	Kind            string // the taxed component, e.g. Principal or Shipping
	Amount          decimal.Decimal
	JurisdLevel     string
	JurisdName      string
	JurisdStateCode string
}

// StagedPromo is a marketplace promotion applied to the line
type StagedPromo struct {
	PromotionID string
	ClaimCode   string
	Kind        string
	Amount      decimal.Decimal
}

// StagedFee is a marketplace-side fee on the line
type StagedFee struct {
	Kind   string
	Amount decimal.Decimal
}

// PrincipalTotal sums the item's Principal price components
func (i StagedOrderItem) PrincipalTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range i.Components {
		if c.Kind == ComponentPrincipal {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// UnitPrice derives the per-unit price from the Principal components,
// rounded half up to cents. Zero quantity yields zero.
func (i StagedOrderItem) UnitPrice() decimal.Decimal {
	if i.Quantity.IsZero() {
		return decimal.Zero
	}
	return i.PrincipalTotal().Div(i.Quantity).Round(2)
}

// ComponentPrincipal is the price component kind carrying the item price
const ComponentPrincipal = "Principal"

// NewStagedOrder stages an extracted order in CREATED status
func NewStagedOrder(documentID uuid.UUID, externalOrderID string, orderDate time.Time) (*StagedOrder, error) {
	if externalOrderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "External order id cannot be empty")
	}
	return &StagedOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentID:        documentID,
		ExternalOrderID:   externalOrderID,
		Status:            ImportCreated,
		OrderDate:         orderDate,
		Items:             make([]StagedOrderItem, 0),
	}, nil
}

// AddItem appends an extracted line to the staged order
func (s *StagedOrder) AddItem(item StagedOrderItem) {
	if item.ID == uuid.Nil {
		item.BaseEntity = shared.NewBaseEntity()
	}
	item.StagedOrderID = s.ID
	s.Items = append(s.Items, item)
}

// MarkImported records the internal order created from this staging row
// and clears the error state
func (s *StagedOrder) MarkImported(orderID uuid.UUID, at time.Time) {
	s.Status = ImportImported
	s.ImportedOrderID = &orderID
	s.ImportedAt = &at
	s.FailureCount = 0
	s.LastError = ""
	s.Touch()
}

// MarkFailed records a failed import attempt
func (s *StagedOrder) MarkFailed(cause error) {
	s.Status = ImportError
	s.FailureCount++
	if cause != nil {
		s.LastError = cause.Error()
	}
	s.Touch()
}

// IsImportable reports whether an import attempt may run under the given
// retry policy
func (s *StagedOrder) IsImportable(policy RetryPolicy) bool {
	if policy.Exhausted(s.FailureCount) {
		return false
	}
	return s.Status == ImportCreated || s.Status == ImportError
}
