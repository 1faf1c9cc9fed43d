package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// AdjustmentType classifies a price adjustment on an order or item
type AdjustmentType string

const (
	AdjustmentPromotion AdjustmentType = "PROMOTION"
	AdjustmentShipping  AdjustmentType = "SHIPPING_CHARGES"
	AdjustmentFee       AdjustmentType = "FEE"
	AdjustmentSalesTax  AdjustmentType = "SALES_TAX"
)

// IsValid returns true if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentPromotion, AdjustmentShipping, AdjustmentFee, AdjustmentSalesTax:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentType
func (t AdjustmentType) String() string {
	return string(t)
}

// Adjustment is a signed amount applied on top of item prices. Promotions
// carry the marketplace promotion id and claim code; sales tax carries the
// resolved tax authority when one could be determined.
type Adjustment struct {
	shared.BaseEntity
	OrderID        uuid.UUID
	OrderItemSeqID *int // nil for order-level adjustments
	Type           AdjustmentType
	Amount         decimal.Decimal
	Description    string
	PromotionID    string
	ClaimCode      string
	TaxAuthorityID *uuid.UUID
}

// NewAdjustment creates an order-level adjustment
func NewAdjustment(adjType AdjustmentType, amount decimal.Decimal, description string) Adjustment {
	return Adjustment{
		BaseEntity:  shared.NewBaseEntity(),
		Type:        adjType,
		Amount:      amount,
		Description: description,
	}
}

// NewItemAdjustment creates an adjustment tied to a specific line item
func NewItemAdjustment(adjType AdjustmentType, amount decimal.Decimal, description string, itemSeqID int) Adjustment {
	adj := NewAdjustment(adjType, amount, description)
	adj.OrderItemSeqID = &itemSeqID
	return adj
}

// WithPromotion attaches marketplace promotion metadata
func (a Adjustment) WithPromotion(promotionID, claimCode string) Adjustment {
	a.PromotionID = promotionID
	a.ClaimCode = claimCode
	return a
}

// WithTaxAuthority attaches the resolved tax authority
func (a Adjustment) WithTaxAuthority(authorityID uuid.UUID) Adjustment {
	a.TaxAuthorityID = &authorityID
	return a
}
