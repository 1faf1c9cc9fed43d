package feed

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// StagedDocumentRepository defines persistence for staged documents
type StagedDocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StagedDocument, error)
	FindByExternalID(ctx context.Context, externalDocumentID string) (*StagedDocument, error)
	Save(ctx context.Context, d *StagedDocument) error
	// FindExtractable returns documents in DOWNLOADED or EXTRACT_ERROR
	// with fewer failures than the ceiling
	FindExtractable(ctx context.Context, policy RetryPolicy, limit int) ([]*StagedDocument, error)
	// FindAckable returns extracted documents not yet acknowledged
	FindAckable(ctx context.Context, limit int) ([]*StagedDocument, error)
	// FindAckSent returns documents with an ack in flight, keyed by
	// submission id
	FindAckSent(ctx context.Context) ([]*StagedDocument, error)
	// SaveExtraction persists the document's new state together with its
	// extracted staging rows in one transaction
	SaveExtraction(ctx context.Context, d *StagedDocument, orders []*StagedOrder) error
	FindAll(ctx context.Context, filter shared.Filter) ([]*StagedDocument, error)
	Count(ctx context.Context) (int64, error)
}

// StagedOrderRepository defines persistence for staged orders
type StagedOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StagedOrder, error)
	FindByExternalID(ctx context.Context, externalOrderID string) (*StagedOrder, error)
	Save(ctx context.Context, s *StagedOrder) error
	// FindImportable returns orders in CREATED or IMPORT_ERROR with fewer
	// failures than the ceiling
	FindImportable(ctx context.Context, policy RetryPolicy, limit int) ([]*StagedOrder, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*StagedOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*StagedOrder, error)
	Count(ctx context.Context) (int64, error)
}

// StagedFeedRepository defines persistence for outbound feed submissions
type StagedFeedRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StagedFeed, error)
	FindBySubmissionID(ctx context.Context, submissionID string) (*StagedFeed, error)
	Save(ctx context.Context, f *StagedFeed) error
	// FindUnreconciled returns submissions still awaiting a processing
	// report
	FindUnreconciled(ctx context.Context) ([]*StagedFeed, error)
}
