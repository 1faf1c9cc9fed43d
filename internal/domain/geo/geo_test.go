package geo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGeoRepository is a mock implementation of GeoRepository
type MockGeoRepository struct {
	mock.Mock
}

func (m *MockGeoRepository) FindByCode(ctx context.Context, kind GeoKind, code string) (*Geo, error) {
	args := m.Called(ctx, kind, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Geo), args.Error(1)
}

func (m *MockGeoRepository) FindByAbbreviation(ctx context.Context, kind GeoKind, abbreviation string) (*Geo, error) {
	args := m.Called(ctx, kind, abbreviation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Geo), args.Error(1)
}

func (m *MockGeoRepository) FindByName(ctx context.Context, kind GeoKind, name string) (*Geo, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Geo), args.Error(1)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "NEW YORK", Normalize("  new   york "))
	assert.Equal(t, "CALIF", StripPunctuation("Calif."))
	assert.Equal(t, "QUEBEC", StripPunctuation("Québec"))
}

func TestResolverPrecedence(t *testing.T) {
	ctx := context.Background()

	t.Run("code match wins over abbreviation", func(t *testing.T) {
		repo := new(MockGeoRepository)
		resolver := NewResolver(repo)
		byCode := &Geo{ID: uuid.New(), Kind: GeoKindState, Code: "CA", Name: "California"}

		repo.On("FindByCode", ctx, GeoKindState, "CA").Return(byCode, nil)

		got, err := resolver.ResolveState(ctx, "ca")

		require.NoError(t, err)
		assert.Equal(t, byCode.ID, got.ID)
		repo.AssertNotCalled(t, "FindByAbbreviation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("abbreviation match when code misses", func(t *testing.T) {
		repo := new(MockGeoRepository)
		resolver := NewResolver(repo)
		byAbbrev := &Geo{ID: uuid.New(), Kind: GeoKindState, Abbreviation: "TX", Name: "Texas"}

		repo.On("FindByCode", ctx, GeoKindState, "TX").Return(nil, ErrGeoNotFound)
		repo.On("FindByAbbreviation", ctx, GeoKindState, "TX").Return(byAbbrev, nil)

		got, err := resolver.ResolveState(ctx, "TX")

		require.NoError(t, err)
		assert.Equal(t, byAbbrev.ID, got.ID)
		repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stripped variant tried after raw", func(t *testing.T) {
		repo := new(MockGeoRepository)
		resolver := NewResolver(repo)
		byName := &Geo{ID: uuid.New(), Kind: GeoKindState, Name: "CALIF"}

		repo.On("FindByCode", ctx, GeoKindState, "CALIF.").Return(nil, ErrGeoNotFound)
		repo.On("FindByCode", ctx, GeoKindState, "CALIF").Return(nil, ErrGeoNotFound)
		repo.On("FindByAbbreviation", ctx, GeoKindState, "CALIF.").Return(nil, ErrGeoNotFound)
		repo.On("FindByAbbreviation", ctx, GeoKindState, "CALIF").Return(nil, ErrGeoNotFound)
		repo.On("FindByName", ctx, GeoKindState, "CALIF.").Return(nil, ErrGeoNotFound)
		repo.On("FindByName", ctx, GeoKindState, "CALIF").Return(byName, nil)

		got, err := resolver.ResolveState(ctx, "Calif.")

		require.NoError(t, err)
		assert.Equal(t, byName.ID, got.ID)
	})

	t.Run("no match is ErrGeoNotFound", func(t *testing.T) {
		repo := new(MockGeoRepository)
		resolver := NewResolver(repo)

		repo.On("FindByCode", ctx, GeoKindCountry, "ATLANTIS").Return(nil, ErrGeoNotFound)
		repo.On("FindByAbbreviation", ctx, GeoKindCountry, "ATLANTIS").Return(nil, ErrGeoNotFound)
		repo.On("FindByName", ctx, GeoKindCountry, "ATLANTIS").Return(nil, ErrGeoNotFound)

		_, err := resolver.ResolveCountry(ctx, "Atlantis")
		assert.ErrorIs(t, err, ErrGeoNotFound)
	})
}

// MockTaxJurisdictionRepository is a mock implementation of TaxJurisdictionRepository
type MockTaxJurisdictionRepository struct {
	mock.Mock
}

func (m *MockTaxJurisdictionRepository) FindMapping(ctx context.Context, level JurisdictionLevel, name, stateCode string) (*TaxJurisdictionMapping, error) {
	args := m.Called(ctx, level, name, stateCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TaxJurisdictionMapping), args.Error(1)
}

func TestTaxAuthorityResolver(t *testing.T) {
	ctx := context.Background()
	authority := uuid.New()

	t.Run("district resolves directly", func(t *testing.T) {
		repo := new(MockTaxJurisdictionRepository)
		resolver := NewTaxAuthorityResolver(repo)

		repo.On("FindMapping", ctx, JurisdictionLevelDistrict, "MISSION", "CA").
			Return(&TaxJurisdictionMapping{AuthorityID: authority}, nil)

		got, err := resolver.Resolve(ctx, JurisdictionLevelDistrict, "Mission", "CA")

		require.NoError(t, err)
		assert.Equal(t, authority, got)
	})

	t.Run("falls through district to county", func(t *testing.T) {
		repo := new(MockTaxJurisdictionRepository)
		resolver := NewTaxAuthorityResolver(repo)

		repo.On("FindMapping", ctx, JurisdictionLevelDistrict, "ALAMEDA", "CA").Return(nil, ErrTaxAuthorityNotFound)
		repo.On("FindMapping", ctx, JurisdictionLevelCity, "ALAMEDA", "CA").Return(nil, ErrTaxAuthorityNotFound)
		repo.On("FindMapping", ctx, JurisdictionLevelCounty, "ALAMEDA", "CA").
			Return(&TaxJurisdictionMapping{AuthorityID: authority}, nil)

		got, err := resolver.Resolve(ctx, JurisdictionLevelDistrict, "Alameda", "CA")

		require.NoError(t, err)
		assert.Equal(t, authority, got)
	})

	t.Run("state-wide fallback row", func(t *testing.T) {
		repo := new(MockTaxJurisdictionRepository)
		resolver := NewTaxAuthorityResolver(repo)

		repo.On("FindMapping", ctx, JurisdictionLevelCity, "NOWHERE", "WA").Return(nil, ErrTaxAuthorityNotFound)
		repo.On("FindMapping", ctx, JurisdictionLevelCounty, "NOWHERE", "WA").Return(nil, ErrTaxAuthorityNotFound)
		repo.On("FindMapping", ctx, JurisdictionLevelState, "NOWHERE", "WA").Return(nil, ErrTaxAuthorityNotFound)
		repo.On("FindMapping", ctx, JurisdictionLevelState, "", "WA").
			Return(&TaxJurisdictionMapping{AuthorityID: authority}, nil)

		got, err := resolver.Resolve(ctx, JurisdictionLevelCity, "Nowhere", "WA")

		require.NoError(t, err)
		assert.Equal(t, authority, got)
	})

	t.Run("no mapping anywhere", func(t *testing.T) {
		repo := new(MockTaxJurisdictionRepository)
		resolver := NewTaxAuthorityResolver(repo)

		repo.On("FindMapping", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, ErrTaxAuthorityNotFound)

		_, err := resolver.Resolve(ctx, JurisdictionLevelState, "Nowhere", "ZZ")
		assert.ErrorIs(t, err, ErrTaxAuthorityNotFound)
	})
}
