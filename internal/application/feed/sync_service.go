package feedapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// SyncResult summarizes one StorePendingDocuments run
type SyncResult struct {
	Listed     int      `json:"listed"`
	Stored     int      `json:"stored"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	FailedDocs []string `json:"failed_docs,omitempty"`
}

// DocumentSyncService downloads pending marketplace documents into the
// staging area
type DocumentSyncService struct {
	docRepo     feed.StagedDocumentRepository
	marketplace feed.MarketplaceClient
	parser      feed.ReportParser
	storage     ObjectStorageService
	notifier    NotificationService
	policy      feed.RetryPolicy
	logger      *zap.Logger
}

// NewDocumentSyncService creates a new DocumentSyncService
func NewDocumentSyncService(
	docRepo feed.StagedDocumentRepository,
	marketplace feed.MarketplaceClient,
	parser feed.ReportParser,
	storage ObjectStorageService,
	notifier NotificationService,
	policy feed.RetryPolicy,
	logger *zap.Logger,
) *DocumentSyncService {
	return &DocumentSyncService{
		docRepo:     docRepo,
		marketplace: marketplace,
		parser:      parser,
		storage:     storage,
		notifier:    notifier,
		policy:      policy,
		logger:      logger,
	}
}

// StorePendingDocuments lists documents the marketplace holds for pickup,
// downloads each one not yet successfully staged, validates
// well-formedness and stores it. Rows whose earlier download failed are
// re-downloaded in place until the retry ceiling. One document failing
// does not stop the rest.
func (s *DocumentSyncService) StorePendingDocuments(ctx context.Context) (*SyncResult, error) {
	pending, err := s.marketplace.ListPendingDocuments(ctx, feed.DocumentTypeOrderReport)
	if err != nil {
		return nil, fmt.Errorf("list pending documents: %w", err)
	}

	result := &SyncResult{Listed: len(pending)}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		doc, findErr := s.docRepo.FindByExternalID(ctx, p.ExternalDocumentID)
		if findErr == nil && !s.retryable(doc) {
			result.Skipped++
			continue
		}
		if findErr != nil {
			doc, err = feed.NewStagedDocument(p.ExternalDocumentID, p.Type, nil, p.GeneratedAt, time.Now())
			if err != nil {
				result.Failed++
				result.FailedDocs = append(result.FailedDocs, p.ExternalDocumentID)
				continue
			}
		}
		if err := s.storeDocument(ctx, doc); err != nil {
			result.Failed++
			result.FailedDocs = append(result.FailedDocs, p.ExternalDocumentID)
			s.logger.Error("Failed to store pending document",
				zap.String("document_id", p.ExternalDocumentID),
				zap.Error(err))
			s.notifyError(ctx, p.ExternalDocumentID, err)
			continue
		}
		result.Stored++
	}

	s.logger.Info("Document sync completed",
		zap.Int("listed", result.Listed),
		zap.Int("stored", result.Stored),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

// retryable reports whether a staged row's failed download may be
// reattempted under the retry policy
func (s *DocumentSyncService) retryable(d *feed.StagedDocument) bool {
	return d.Status == feed.DocumentDownloadError && !s.policy.Exhausted(d.FailureCount)
}

// storeDocument downloads and validates the payload for a staging row,
// new or retried. Failures are recorded on the row before returning.
func (s *DocumentSyncService) storeDocument(ctx context.Context, doc *feed.StagedDocument) error {
	payload, err := s.marketplace.GetDocument(ctx, doc.ExternalDocumentID)
	if err != nil {
		doc.MarkDownloadError(err)
		if saveErr := s.docRepo.Save(ctx, doc); saveErr != nil {
			return saveErr
		}
		return fmt.Errorf("download document: %w", err)
	}

	if err := s.parser.Validate(payload); err != nil {
		doc.MarkDownloadError(err)
		if saveErr := s.docRepo.Save(ctx, doc); saveErr != nil {
			return saveErr
		}
		return fmt.Errorf("validate document: %w", err)
	}
	doc.MarkDownloaded(payload, time.Now())

	s.archivePayload(ctx, doc)

	return s.docRepo.Save(ctx, doc)
}

// archivePayload copies the raw payload to object storage. Archiving is
// best-effort; the payload also lives in the staging row.
func (s *DocumentSyncService) archivePayload(ctx context.Context, doc *feed.StagedDocument) {
	key := fmt.Sprintf("feeds/%s/%s.xml", doc.DownloadedAt.Format("2006/01/02"), doc.ExternalDocumentID)
	if err := s.storage.PutObject(ctx, key, doc.Payload, "application/xml"); err != nil {
		s.logger.Warn("Failed to archive document payload",
			zap.String("document_id", doc.ExternalDocumentID),
			zap.String("key", key),
			zap.Error(err))
		return
	}
	doc.ArchiveKey = key
}

func (s *DocumentSyncService) notifyError(ctx context.Context, documentID string, cause error) {
	subject := fmt.Sprintf("Order document %s failed to stage", documentID)
	if err := s.notifier.NotifyError(ctx, subject, cause.Error()); err != nil {
		s.logger.Warn("Failed to send error notification",
			zap.String("document_id", documentID),
			zap.Error(err))
	}
}
