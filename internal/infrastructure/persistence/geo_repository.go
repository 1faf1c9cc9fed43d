package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormGeoRepository implements GeoRepository over the geos reference table
type GormGeoRepository struct {
	db *gorm.DB
}

// NewGormGeoRepository creates a new GormGeoRepository
func NewGormGeoRepository(db *gorm.DB) *GormGeoRepository {
	return &GormGeoRepository{db: db}
}

// FindByCode finds a geo by kind and code
func (r *GormGeoRepository) FindByCode(ctx context.Context, kind geo.GeoKind, code string) (*geo.Geo, error) {
	var model models.GeoModel
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND code = ?", kind, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAbbreviation finds a geo by kind and abbreviation, case insensitive
func (r *GormGeoRepository) FindByAbbreviation(ctx context.Context, kind geo.GeoKind, abbreviation string) (*geo.Geo, error) {
	var model models.GeoModel
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND UPPER(abbreviation) = UPPER(?)", kind, abbreviation).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a geo by kind and name, case insensitive
func (r *GormGeoRepository) FindByName(ctx context.Context, kind geo.GeoKind, name string) (*geo.Geo, error) {
	var model models.GeoModel
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND LOWER(name) = LOWER(?)", kind, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormGeoRepository implements GeoRepository
var _ geo.GeoRepository = (*GormGeoRepository)(nil)

// GormTaxJurisdictionRepository implements TaxJurisdictionRepository over
// the tax_jurisdictions reference table
type GormTaxJurisdictionRepository struct {
	db *gorm.DB
}

// NewGormTaxJurisdictionRepository creates a new GormTaxJurisdictionRepository
func NewGormTaxJurisdictionRepository(db *gorm.DB) *GormTaxJurisdictionRepository {
	return &GormTaxJurisdictionRepository{db: db}
}

// FindMapping finds a mapping by level, normalized name and state code.
// Fallback rows carry an empty name and only match an empty name lookup.
func (r *GormTaxJurisdictionRepository) FindMapping(ctx context.Context, level geo.JurisdictionLevel, name, stateCode string) (*geo.TaxJurisdictionMapping, error) {
	var model models.TaxJurisdictionModel
	if err := r.db.WithContext(ctx).
		Where("level = ? AND LOWER(name) = LOWER(?) AND state_code = ?", level, name, stateCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormTaxJurisdictionRepository implements TaxJurisdictionRepository
var _ geo.TaxJurisdictionRepository = (*GormTaxJurisdictionRepository)(nil)
