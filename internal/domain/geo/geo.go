package geo

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrGeoNotFound indicates no geography matched the raw input
	ErrGeoNotFound = errors.New("geo: no matching geography")
	// ErrTaxAuthorityNotFound indicates no tax authority matched the jurisdiction
	ErrTaxAuthorityNotFound = errors.New("geo: no matching tax authority")
)

// GeoKind distinguishes countries from state/province records
type GeoKind string

const (
	GeoKindCountry GeoKind = "COUNTRY"
	GeoKindState   GeoKind = "STATE"
)

// IsValid returns true if the kind is valid
func (k GeoKind) IsValid() bool {
	return k == GeoKindCountry || k == GeoKindState
}

// String returns the string representation of GeoKind
func (k GeoKind) String() string {
	return string(k)
}

// Geo is a canonical geography record (a country or a state/province)
type Geo struct {
	ID           uuid.UUID
	Kind         GeoKind
	Code         string // canonical geo code, e.g. "USA", "CA"
	Abbreviation string // postal abbreviation, e.g. "US", "CA"
	Name         string // full name, e.g. "United States", "California"
	ParentCode   string // country code for states, empty for countries
}

// GeoRepository provides lookup access to geography records
type GeoRepository interface {
	FindByCode(ctx context.Context, kind GeoKind, code string) (*Geo, error)
	FindByAbbreviation(ctx context.Context, kind GeoKind, abbreviation string) (*Geo, error)
	FindByName(ctx context.Context, kind GeoKind, name string) (*Geo, error)
}

// stripper removes diacritics and punctuation, used for the relaxed
// second-pass match against free-form address input.
var stripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.In(unicode.Punct)),
	norm.NFC,
)

// Normalize upper-cases the input and collapses interior whitespace.
// Used for both match candidates and stored lookup keys.
func Normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// StripPunctuation returns the normalized input with punctuation and
// diacritics removed, e.g. "Calif." -> "CALIF".
func StripPunctuation(s string) string {
	stripped, _, err := transform.String(stripper, s)
	if err != nil {
		stripped = s
	}
	return Normalize(stripped)
}

// Resolver resolves free-form geography strings to canonical Geo records.
// Match precedence is strict: exact code, then abbreviation, then name; each
// attempted against the raw input first and a punctuation-stripped variant
// second. A code match always wins over an abbreviation or name match.
type Resolver struct {
	repo GeoRepository
}

// NewResolver creates a new geography resolver
func NewResolver(repo GeoRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve resolves a raw geography string of the given kind.
// Returns ErrGeoNotFound when nothing matches.
func (r *Resolver) Resolve(ctx context.Context, kind GeoKind, raw string) (*Geo, error) {
	candidates := []string{Normalize(raw)}
	if stripped := StripPunctuation(raw); stripped != candidates[0] {
		candidates = append(candidates, stripped)
	}

	type lookup func(context.Context, GeoKind, string) (*Geo, error)
	for _, find := range []lookup{r.repo.FindByCode, r.repo.FindByAbbreviation, r.repo.FindByName} {
		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			g, err := find(ctx, kind, candidate)
			if err == nil && g != nil {
				return g, nil
			}
			if err != nil && !errors.Is(err, ErrGeoNotFound) {
				return nil, err
			}
		}
	}
	return nil, ErrGeoNotFound
}

// ResolveState resolves a state string within a country
func (r *Resolver) ResolveState(ctx context.Context, raw string) (*Geo, error) {
	return r.Resolve(ctx, GeoKindState, raw)
}

// ResolveCountry resolves a country string
func (r *Resolver) ResolveCountry(ctx context.Context, raw string) (*Geo, error) {
	return r.Resolve(ctx, GeoKindCountry, raw)
}
