package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductResolver resolves marketplace line items to catalog products.
// Depending on configuration, the marketplace SKU field either holds our
// catalog SKU directly, or a UPC that must be looked up (with UPC-E codes
// expanded to UPC-A first when no direct match exists).
type ProductResolver struct {
	repo        ProductRepository
	useUPCAsSKU bool
}

// NewProductResolver creates a new product resolver
func NewProductResolver(repo ProductRepository, useUPCAsSKU bool) *ProductResolver {
	return &ProductResolver{repo: repo, useUPCAsSKU: useUPCAsSKU}
}

// Resolve resolves the marketplace identifier to a catalog product.
// Returns ErrProductNotFound when nothing matches.
func (r *ProductResolver) Resolve(ctx context.Context, identifier string) (*Product, error) {
	if identifier == "" {
		return nil, ErrProductNotFound
	}
	if !r.useUPCAsSKU {
		return r.bySKU(ctx, identifier)
	}
	return r.byUPC(ctx, identifier)
}

func (r *ProductResolver) bySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := r.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductResolver) byUPC(ctx context.Context, upc string) (*Product, error) {
	p, err := r.repo.FindByUPC(ctx, upc)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProductNotFound) {
		return nil, err
	}

	// No direct UPC-A match; an 8-digit code may be a zero-suppressed UPC-E
	expanded, expErr := ExpandUPCE(upc)
	if expErr != nil {
		return nil, ErrProductNotFound
	}
	return r.repo.FindByUPC(ctx, expanded)
}

// InventoryService is the port to the external inventory system.
// Reserve returns the quantity that could NOT be satisfied (zero when the
// full reservation succeeded).
type InventoryService interface {
	Reserve(ctx context.Context, facilityID string, productID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error)
}
