package party

import (
	"strings"

	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// Classification tags how a party entered the system
type Classification string

const (
	// ClassificationMarketplaceCustomer marks parties created from imported
	// marketplace orders
	ClassificationMarketplaceCustomer Classification = "MARKETPLACE_CUSTOMER"
	// ClassificationDirectCustomer marks parties created through direct sales
	ClassificationDirectCustomer Classification = "DIRECT_CUSTOMER"
)

// IsValid returns true if the classification is valid
func (c Classification) IsValid() bool {
	return c == ClassificationMarketplaceCustomer || c == ClassificationDirectCustomer
}

// String returns the string representation of Classification
func (c Classification) String() string {
	return string(c)
}

// Party is the aggregate root for a customer identity. Parties created from
// marketplace orders are deduplicated by the buyer's external email address
// and created lazily on their first imported order.
type Party struct {
	shared.BaseAggregateRoot
	FirstName      string
	LastName       string
	ExternalEmail  string // marketplace buyer email, lower-cased, dedup key
	Classification Classification
	Addresses      []PostalAddress
	Phones         []PhoneContact
	Emails         []EmailContact
}

// NewParty creates a new party for a marketplace buyer. The external email is
// the dedup key and is stored lower-cased; the primary email contact is
// created alongside.
func NewParty(firstName, lastName, externalEmail string, classification Classification) (*Party, error) {
	if externalEmail == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "External email cannot be empty")
	}
	if !classification.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLASSIFICATION", "Unknown party classification")
	}

	email := strings.ToLower(strings.TrimSpace(externalEmail))
	p := &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		ExternalEmail:     email,
		Classification:    classification,
		Addresses:         make([]PostalAddress, 0),
		Phones:            make([]PhoneContact, 0),
		Emails:            make([]EmailContact, 0),
	}
	p.Emails = append(p.Emails, NewEmailContact(p.ID, email, ContactPurposePrimary))
	p.AddDomainEvent(NewPartyCreatedEvent(p))
	return p, nil
}

// FullName returns the display name
func (p *Party) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// FindMatchingAddress returns an existing postal address equal to the
// candidate under normalization, or nil when none matches. Used to avoid
// creating duplicate address rows for repeat buyers.
func (p *Party) FindMatchingAddress(candidate PostalAddress) *PostalAddress {
	for i := range p.Addresses {
		if p.Addresses[i].MatchesNormalized(candidate) {
			return &p.Addresses[i]
		}
	}
	return nil
}

// AddAddress attaches a postal address to the party
func (p *Party) AddAddress(addr PostalAddress) *PostalAddress {
	addr.PartyID = p.ID
	p.Addresses = append(p.Addresses, addr)
	p.Touch()
	return &p.Addresses[len(p.Addresses)-1]
}

// FindPhone returns an existing phone contact with the same decomposed
// number, or nil when none matches
func (p *Party) FindPhone(number valueobject.PhoneNumber) *PhoneContact {
	for i := range p.Phones {
		if p.Phones[i].Number == number {
			return &p.Phones[i]
		}
	}
	return nil
}

// AddPhone attaches a phone contact to the party
func (p *Party) AddPhone(number valueobject.PhoneNumber, purpose ContactPurpose) *PhoneContact {
	contact := NewPhoneContact(p.ID, number, purpose)
	p.Phones = append(p.Phones, contact)
	p.Touch()
	return &p.Phones[len(p.Phones)-1]
}

// NormalizeAddressField prepares an address component for exact matching
func NormalizeAddressField(s string) string {
	return geo.Normalize(s)
}
