package party

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// PartyRepository defines the persistence interface for parties
type PartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)
	// FindByExternalEmail looks up a marketplace buyer by dedup key.
	// Returns shared.ErrNotFound when no party carries the email.
	FindByExternalEmail(ctx context.Context, email string) (*Party, error)
	Save(ctx context.Context, p *Party) error
	FindAll(ctx context.Context, filter shared.Filter) ([]*Party, error)
	Count(ctx context.Context) (int64, error)
}
