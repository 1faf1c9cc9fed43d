package geo

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// JurisdictionLevel is the granularity of a tax jurisdiction
type JurisdictionLevel string

const (
	JurisdictionLevelDistrict JurisdictionLevel = "DISTRICT"
	JurisdictionLevelCity     JurisdictionLevel = "CITY"
	JurisdictionLevelCounty   JurisdictionLevel = "COUNTY"
	JurisdictionLevelState    JurisdictionLevel = "STATE"
)

// IsValid returns true if the level is valid
func (l JurisdictionLevel) IsValid() bool {
	switch l {
	case JurisdictionLevelDistrict, JurisdictionLevelCity, JurisdictionLevelCounty, JurisdictionLevelState:
		return true
	}
	return false
}

// String returns the string representation of JurisdictionLevel
func (l JurisdictionLevel) String() string {
	return string(l)
}

// coarser returns the levels to try after this one, broadest last
func (l JurisdictionLevel) coarser() []JurisdictionLevel {
	switch l {
	case JurisdictionLevelDistrict:
		return []JurisdictionLevel{JurisdictionLevelCity, JurisdictionLevelCounty, JurisdictionLevelState}
	case JurisdictionLevelCity:
		return []JurisdictionLevel{JurisdictionLevelCounty, JurisdictionLevelState}
	case JurisdictionLevelCounty:
		return []JurisdictionLevel{JurisdictionLevelState}
	}
	return nil
}

// TaxJurisdictionMapping maps a marketplace-reported jurisdiction to the tax
// authority responsible for it. StateCode scopes the mapping; a mapping with
// an empty Name is the state-wide fallback row.
type TaxJurisdictionMapping struct {
	ID          uuid.UUID
	Level       JurisdictionLevel
	Name        string // normalized jurisdiction name, empty for state-wide rows
	StateCode   string // state geo code the jurisdiction belongs to
	AuthorityID uuid.UUID
}

// TaxJurisdictionRepository provides lookup of jurisdiction-to-authority mappings
type TaxJurisdictionRepository interface {
	// FindMapping finds a mapping by level, normalized name and state code.
	// An empty name matches only state-wide fallback rows.
	FindMapping(ctx context.Context, level JurisdictionLevel, name, stateCode string) (*TaxJurisdictionMapping, error)
}

// TaxAuthorityResolver resolves a reported tax jurisdiction to an authority by
// trying progressively coarser matches: the reported level first, then each
// broader level with the same name, and finally the state-wide fallback.
type TaxAuthorityResolver struct {
	repo TaxJurisdictionRepository
}

// NewTaxAuthorityResolver creates a new tax authority resolver
func NewTaxAuthorityResolver(repo TaxJurisdictionRepository) *TaxAuthorityResolver {
	return &TaxAuthorityResolver{repo: repo}
}

// Resolve resolves the authority for a jurisdiction reported at the given
// level. Returns ErrTaxAuthorityNotFound when no mapping exists at any level.
func (r *TaxAuthorityResolver) Resolve(ctx context.Context, level JurisdictionLevel, name, stateCode string) (uuid.UUID, error) {
	normalized := Normalize(name)
	state := Normalize(stateCode)

	levels := append([]JurisdictionLevel{level}, level.coarser()...)
	for _, l := range levels {
		m, err := r.repo.FindMapping(ctx, l, normalized, state)
		if err == nil && m != nil {
			return m.AuthorityID, nil
		}
		if err != nil && !errors.Is(err, ErrTaxAuthorityNotFound) {
			return uuid.Nil, err
		}
	}

	// State-wide fallback row carries an empty name
	m, err := r.repo.FindMapping(ctx, JurisdictionLevelState, "", state)
	if err == nil && m != nil {
		return m.AuthorityID, nil
	}
	if err != nil && !errors.Is(err, ErrTaxAuthorityNotFound) {
		return uuid.Nil, err
	}
	return uuid.Nil, ErrTaxAuthorityNotFound
}
