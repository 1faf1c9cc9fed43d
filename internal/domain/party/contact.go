package party

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// ContactPurpose describes what a contact mechanism is used for
type ContactPurpose string

const (
	ContactPurposePrimary  ContactPurpose = "PRIMARY"
	ContactPurposeShipping ContactPurpose = "SHIPPING"
	ContactPurposeBilling  ContactPurpose = "BILLING"
)

// IsValid returns true if the contact purpose is valid
func (c ContactPurpose) IsValid() bool {
	switch c {
	case ContactPurposePrimary, ContactPurposeShipping, ContactPurposeBilling:
		return true
	}
	return false
}

// String returns the string representation of ContactPurpose
func (c ContactPurpose) String() string {
	return string(c)
}

// PostalAddress is a party's street address. Ship-to addresses from imported
// orders carry resolved geo references for state and country.
type PostalAddress struct {
	shared.BaseEntity
	PartyID       uuid.UUID
	ToName        string
	Address1      string
	Address2      string
	City          string
	StateGeoID    *uuid.UUID
	CountryGeoID  *uuid.UUID
	StateRaw      string // verbatim value from the source document
	CountryRaw    string
	PostalCode    string
	PostalCodeExt string
	Purpose       ContactPurpose
}

// NewPostalAddress creates a postal address, splitting a hyphenated ZIP+4
// postal code into base and extension parts
func NewPostalAddress(toName, address1, address2, city, postalCode string, purpose ContactPurpose) PostalAddress {
	base, ext := SplitPostalCode(postalCode)
	return PostalAddress{
		BaseEntity:    shared.NewBaseEntity(),
		ToName:        toName,
		Address1:      address1,
		Address2:      address2,
		City:          city,
		PostalCode:    base,
		PostalCodeExt: ext,
		Purpose:       purpose,
	}
}

// SplitPostalCode splits "12345-6789" into ("12345", "6789"). Codes without
// a hyphen are returned whole with an empty extension.
func SplitPostalCode(code string) (string, string) {
	code = strings.TrimSpace(code)
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return code[:i], code[i+1:]
	}
	return code, ""
}

// MatchesNormalized reports whether two addresses are the same location
// under case-insensitive, punctuation-stripped comparison of the street,
// city and postal fields. The extension part of a ZIP+4 code does not
// participate in matching.
func (a PostalAddress) MatchesNormalized(other PostalAddress) bool {
	return normalizeField(a.Address1) == normalizeField(other.Address1) &&
		normalizeField(a.Address2) == normalizeField(other.Address2) &&
		normalizeField(a.City) == normalizeField(other.City) &&
		normalizeField(a.PostalCode) == normalizeField(other.PostalCode)
}

func normalizeField(s string) string {
	return geo.StripPunctuation(geo.Normalize(s))
}

// PhoneContact is a party's phone contact mechanism
type PhoneContact struct {
	shared.BaseEntity
	PartyID uuid.UUID
	Number  valueobject.PhoneNumber
	Purpose ContactPurpose
}

// NewPhoneContact creates a phone contact for a party
func NewPhoneContact(partyID uuid.UUID, number valueobject.PhoneNumber, purpose ContactPurpose) PhoneContact {
	return PhoneContact{
		BaseEntity: shared.NewBaseEntity(),
		PartyID:    partyID,
		Number:     number,
		Purpose:    purpose,
	}
}

// EmailContact is a party's email contact mechanism
type EmailContact struct {
	shared.BaseEntity
	PartyID uuid.UUID
	Address string
	Purpose ContactPurpose
}

// NewEmailContact creates an email contact for a party
func NewEmailContact(partyID uuid.UUID, address string, purpose ContactPurpose) EmailContact {
	return EmailContact{
		BaseEntity: shared.NewBaseEntity(),
		PartyID:    partyID,
		Address:    strings.ToLower(strings.TrimSpace(address)),
		Purpose:    purpose,
	}
}
