package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/shared"
)

var (
	// ErrProductNotFound indicates no catalog product matched the identifier
	ErrProductNotFound = errors.New("catalog: product not found")
)

// Product is a catalog product resolvable by SKU or UPC
type Product struct {
	shared.BaseEntity
	SKU         string
	UPC         string // UPC-A (12 digits), empty when not assigned
	Name        string
	Description string
	ListPrice   decimal.Decimal
	IsActive    bool
}

// NewProduct creates a new catalog product
func NewProduct(sku, name string) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
		ListPrice:  decimal.Zero,
		IsActive:   true,
	}, nil
}

// SetUPC assigns a UPC-A to the product after validating its check digit
func (p *Product) SetUPC(upc string) error {
	if !IsValidUPCA(upc) {
		return shared.NewDomainError("INVALID_UPC", "UPC must be a valid 12-digit UPC-A")
	}
	p.UPC = upc
	p.Touch()
	return nil
}

// ProductRepository provides lookup access to catalog products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByUPC(ctx context.Context, upc string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
