package models

import (
	"github.com/google/uuid"

	"github.com/sellercentric/backend/internal/domain/party"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// PartyModel is the persistence model for the Party aggregate root.
type PartyModel struct {
	AggregateModel
	FirstName      string               `gorm:"type:varchar(100)"`
	LastName       string               `gorm:"type:varchar(100)"`
	ExternalEmail  string               `gorm:"type:varchar(255);not null;uniqueIndex"`
	Classification party.Classification `gorm:"type:varchar(30);not null"`
	Addresses      []PostalAddressModel `gorm:"foreignKey:PartyID;references:ID"`
	Phones         []PhoneContactModel  `gorm:"foreignKey:PartyID;references:ID"`
	Emails         []EmailContactModel  `gorm:"foreignKey:PartyID;references:ID"`
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// ToDomain converts the persistence model to a domain Party entity.
func (m *PartyModel) ToDomain() *party.Party {
	p := &party.Party{
		BaseAggregateRoot: m.toAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		ExternalEmail:     m.ExternalEmail,
		Classification:    m.Classification,
		Addresses:         make([]party.PostalAddress, len(m.Addresses)),
		Phones:            make([]party.PhoneContact, len(m.Phones)),
		Emails:            make([]party.EmailContact, len(m.Emails)),
	}
	for i, a := range m.Addresses {
		p.Addresses[i] = *a.ToDomain()
	}
	for i, ph := range m.Phones {
		p.Phones[i] = *ph.ToDomain()
	}
	for i, e := range m.Emails {
		p.Emails[i] = *e.ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Party entity.
func (m *PartyModel) FromDomain(p *party.Party) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.FirstName = p.FirstName
	m.LastName = p.LastName
	m.ExternalEmail = p.ExternalEmail
	m.Classification = p.Classification
	m.Addresses = make([]PostalAddressModel, len(p.Addresses))
	for i, a := range p.Addresses {
		m.Addresses[i] = *PostalAddressModelFromDomain(&a)
	}
	m.Phones = make([]PhoneContactModel, len(p.Phones))
	for i, ph := range p.Phones {
		m.Phones[i] = *PhoneContactModelFromDomain(&ph)
	}
	m.Emails = make([]EmailContactModel, len(p.Emails))
	for i, e := range p.Emails {
		m.Emails[i] = *EmailContactModelFromDomain(&e)
	}
}

// PartyModelFromDomain creates a new persistence model from a domain Party entity.
func PartyModelFromDomain(p *party.Party) *PartyModel {
	m := &PartyModel{}
	m.FromDomain(p)
	return m
}

// PostalAddressModel is the persistence model for the PostalAddress entity.
type PostalAddressModel struct {
	BaseModel
	PartyID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	ToName        string               `gorm:"type:varchar(200)"`
	Address1      string               `gorm:"type:varchar(255);not null"`
	Address2      string               `gorm:"type:varchar(255)"`
	City          string               `gorm:"type:varchar(100);not null"`
	StateGeoID    *uuid.UUID           `gorm:"type:uuid"`
	CountryGeoID  *uuid.UUID           `gorm:"type:uuid"`
	StateRaw      string               `gorm:"type:varchar(100)"`
	CountryRaw    string               `gorm:"type:varchar(100)"`
	PostalCode    string               `gorm:"type:varchar(20);not null"`
	PostalCodeExt string               `gorm:"type:varchar(10)"`
	Purpose       party.ContactPurpose `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (PostalAddressModel) TableName() string {
	return "postal_addresses"
}

// ToDomain converts the persistence model to a domain PostalAddress entity.
func (m *PostalAddressModel) ToDomain() *party.PostalAddress {
	return &party.PostalAddress{
		BaseEntity:    m.BaseModel.ToDomain(),
		PartyID:       m.PartyID,
		ToName:        m.ToName,
		Address1:      m.Address1,
		Address2:      m.Address2,
		City:          m.City,
		StateGeoID:    m.StateGeoID,
		CountryGeoID:  m.CountryGeoID,
		StateRaw:      m.StateRaw,
		CountryRaw:    m.CountryRaw,
		PostalCode:    m.PostalCode,
		PostalCodeExt: m.PostalCodeExt,
		Purpose:       m.Purpose,
	}
}

// FromDomain populates the persistence model from a domain PostalAddress entity.
func (m *PostalAddressModel) FromDomain(a *party.PostalAddress) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PartyID = a.PartyID
	m.ToName = a.ToName
	m.Address1 = a.Address1
	m.Address2 = a.Address2
	m.City = a.City
	m.StateGeoID = a.StateGeoID
	m.CountryGeoID = a.CountryGeoID
	m.StateRaw = a.StateRaw
	m.CountryRaw = a.CountryRaw
	m.PostalCode = a.PostalCode
	m.PostalCodeExt = a.PostalCodeExt
	m.Purpose = a.Purpose
}

// PostalAddressModelFromDomain creates a new persistence model from a domain PostalAddress entity.
func PostalAddressModelFromDomain(a *party.PostalAddress) *PostalAddressModel {
	m := &PostalAddressModel{}
	m.FromDomain(a)
	return m
}

// PhoneContactModel is the persistence model for the PhoneContact entity.
// The parsed phone groups are stored as discrete columns so lookups by
// contact number stay indexable.
type PhoneContactModel struct {
	BaseModel
	PartyID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	CountryCode   string               `gorm:"type:varchar(10)"`
	AreaCode      string               `gorm:"type:varchar(10)"`
	ContactNumber string               `gorm:"type:varchar(50);not null"`
	Extension     string               `gorm:"type:varchar(10)"`
	Parsed        bool                 `gorm:"not null;default:false"`
	Purpose       party.ContactPurpose `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (PhoneContactModel) TableName() string {
	return "phone_contacts"
}

// ToDomain converts the persistence model to a domain PhoneContact entity.
func (m *PhoneContactModel) ToDomain() *party.PhoneContact {
	return &party.PhoneContact{
		BaseEntity: m.BaseModel.ToDomain(),
		PartyID:    m.PartyID,
		Number: valueobject.PhoneNumber{
			CountryCode:   m.CountryCode,
			AreaCode:      m.AreaCode,
			ContactNumber: m.ContactNumber,
			Extension:     m.Extension,
			Parsed:        m.Parsed,
		},
		Purpose: m.Purpose,
	}
}

// FromDomain populates the persistence model from a domain PhoneContact entity.
func (m *PhoneContactModel) FromDomain(p *party.PhoneContact) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.PartyID = p.PartyID
	m.CountryCode = p.Number.CountryCode
	m.AreaCode = p.Number.AreaCode
	m.ContactNumber = p.Number.ContactNumber
	m.Extension = p.Number.Extension
	m.Parsed = p.Number.Parsed
	m.Purpose = p.Purpose
}

// PhoneContactModelFromDomain creates a new persistence model from a domain PhoneContact entity.
func PhoneContactModelFromDomain(p *party.PhoneContact) *PhoneContactModel {
	m := &PhoneContactModel{}
	m.FromDomain(p)
	return m
}

// EmailContactModel is the persistence model for the EmailContact entity.
type EmailContactModel struct {
	BaseModel
	PartyID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Address string               `gorm:"type:varchar(255);not null"`
	Purpose party.ContactPurpose `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (EmailContactModel) TableName() string {
	return "email_contacts"
}

// ToDomain converts the persistence model to a domain EmailContact entity.
func (m *EmailContactModel) ToDomain() *party.EmailContact {
	return &party.EmailContact{
		BaseEntity: m.BaseModel.ToDomain(),
		PartyID:    m.PartyID,
		Address:    m.Address,
		Purpose:    m.Purpose,
	}
}

// FromDomain populates the persistence model from a domain EmailContact entity.
func (m *EmailContactModel) FromDomain(e *party.EmailContact) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.PartyID = e.PartyID
	m.Address = e.Address
	m.Purpose = e.Purpose
}

// EmailContactModelFromDomain creates a new persistence model from a domain EmailContact entity.
func EmailContactModelFromDomain(e *party.EmailContact) *EmailContactModel {
	m := &EmailContactModel{}
	m.FromDomain(e)
	return m
}
