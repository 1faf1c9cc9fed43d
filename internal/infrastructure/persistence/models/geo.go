package models

import (
	"github.com/google/uuid"

	"github.com/sellercentric/backend/internal/domain/geo"
)

// GeoModel is the persistence model for geography records. Geos are
// reference data loaded by migration and never written by the application.
type GeoModel struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key"`
	Kind         geo.GeoKind `gorm:"type:varchar(20);not null;index:idx_geos_kind_code,priority:1"`
	Code         string      `gorm:"type:varchar(10);not null;index:idx_geos_kind_code,priority:2"`
	Abbreviation string      `gorm:"type:varchar(10);index"`
	Name         string      `gorm:"type:varchar(100);not null;index"`
	ParentCode   string      `gorm:"type:varchar(10);index"`
}

// TableName returns the table name for GORM
func (GeoModel) TableName() string {
	return "geos"
}

// ToDomain converts the persistence model to a domain Geo record.
func (m *GeoModel) ToDomain() *geo.Geo {
	return &geo.Geo{
		ID:           m.ID,
		Kind:         m.Kind,
		Code:         m.Code,
		Abbreviation: m.Abbreviation,
		Name:         m.Name,
		ParentCode:   m.ParentCode,
	}
}

// TaxJurisdictionModel is the persistence model for jurisdiction-to-authority
// mappings.
type TaxJurisdictionModel struct {
	ID          uuid.UUID             `gorm:"type:uuid;primary_key"`
	Level       geo.JurisdictionLevel `gorm:"type:varchar(20);not null;index:idx_tax_jurisdictions_lookup,priority:1"`
	Name        string                `gorm:"type:varchar(100);not null;index:idx_tax_jurisdictions_lookup,priority:2"`
	StateCode   string                `gorm:"type:varchar(10);not null;index:idx_tax_jurisdictions_lookup,priority:3"`
	AuthorityID uuid.UUID             `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (TaxJurisdictionModel) TableName() string {
	return "tax_jurisdictions"
}

// ToDomain converts the persistence model to a domain TaxJurisdictionMapping.
func (m *TaxJurisdictionModel) ToDomain() *geo.TaxJurisdictionMapping {
	return &geo.TaxJurisdictionMapping{
		ID:          m.ID,
		Level:       m.Level,
		Name:        m.Name,
		StateCode:   m.StateCode,
		AuthorityID: m.AuthorityID,
	}
}
