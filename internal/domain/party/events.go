package party

import (
	"github.com/sellercentric/backend/internal/domain/shared"
)

// PartyCreatedEvent is published when a new party is created
type PartyCreatedEvent struct {
	shared.BaseDomainEvent
	ExternalEmail  string `json:"external_email"`
	Classification string `json:"classification"`
}

// NewPartyCreatedEvent creates a new party created event
func NewPartyCreatedEvent(p *Party) *PartyCreatedEvent {
	return &PartyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("party.created", p.ID, "Party"),
		ExternalEmail:   p.ExternalEmail,
		Classification:  p.Classification.String(),
	}
}
