package feedapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// AckResult summarizes one AcknowledgeDocuments run
type AckResult struct {
	Acknowledged int    `json:"acknowledged"`
	SubmissionID string `json:"submission_id,omitempty"`
}

// ReconcileResult summarizes one ReconcileAckResults run
type ReconcileResult struct {
	Submissions int `json:"submissions"`
	Pending     int `json:"pending"`
	Succeeded   int `json:"succeeded"`
	Errored     int `json:"errored"`
}

// AckService runs the two-phase acknowledgment loop: submit a batch ack
// feed for extracted documents, then poll processing reports and fan the
// per-message outcomes back onto the source records.
type AckService struct {
	docRepo     feed.StagedDocumentRepository
	feedRepo    feed.StagedFeedRepository
	marketplace feed.MarketplaceClient
	builder     FeedBuilder
	notifier    NotificationService
	batchSize   int
	logger      *zap.Logger
}

// NewAckService creates a new AckService
func NewAckService(
	docRepo feed.StagedDocumentRepository,
	feedRepo feed.StagedFeedRepository,
	marketplace feed.MarketplaceClient,
	builder FeedBuilder,
	notifier NotificationService,
	logger *zap.Logger,
) *AckService {
	return &AckService{
		docRepo:     docRepo,
		feedRepo:    feedRepo,
		marketplace: marketplace,
		builder:     builder,
		notifier:    notifier,
		batchSize:   100,
		logger:      logger,
	}
}

// SetBatchSize overrides how many documents one acknowledgment batch holds
func (s *AckService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// AcknowledgeDocuments builds and submits one batch acknowledgment feed
// for extracted documents that have not been acked yet. Each document
// records the submission id and its message id inside the batch.
func (s *AckService) AcknowledgeDocuments(ctx context.Context) (*AckResult, error) {
	docs, err := s.docRepo.FindAckable(ctx, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("find ackable documents: %w", err)
	}
	if len(docs) == 0 {
		return &AckResult{}, nil
	}

	batch := feed.NewAckBatch()
	for _, doc := range docs {
		batch.Add(doc.ExternalDocumentID, doc)
	}

	payload, err := s.builder.BuildOrderAckFeed(batch.Lines())
	if err != nil {
		return nil, fmt.Errorf("build ack feed: %w", err)
	}

	submissionID, err := s.marketplace.SubmitFeed(ctx, feed.FeedOrderAck.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("submit ack feed: %w", err)
	}

	for i, doc := range docs {
		doc.MarkAckSent(submissionID, batch.Lines()[i].MessageID)
		if err := s.docRepo.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("save acked document %s: %w", doc.ExternalDocumentID, err)
		}
	}

	sf, err := feed.NewStagedFeed(feed.FeedOrderAck, submissionID, len(docs), time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.feedRepo.Save(ctx, sf); err != nil {
		return nil, fmt.Errorf("save feed submission: %w", err)
	}

	s.logger.Info("Acknowledgment feed submitted",
		zap.String("submission_id", submissionID),
		zap.Int("documents", len(docs)))
	return &AckResult{Acknowledged: len(docs), SubmissionID: submissionID}, nil
}

// ReconcileAckResults polls processing reports for in-flight submissions
// and applies the outcomes. Acknowledgment submissions fan their results
// back onto the source documents; other outbound feeds close out on the
// submission record alone. Submissions still processing are left for the
// next run.
func (s *AckService) ReconcileAckResults(ctx context.Context) (*ReconcileResult, error) {
	docs, err := s.docRepo.FindAckSent(ctx)
	if err != nil {
		return nil, fmt.Errorf("find in-flight documents: %w", err)
	}

	bySubmission := make(map[string][]*feed.StagedDocument)
	for _, doc := range docs {
		bySubmission[doc.SubmissionID] = append(bySubmission[doc.SubmissionID], doc)
	}

	result := &ReconcileResult{Submissions: len(bySubmission)}
	now := time.Now()
	handled := make(map[string]bool, len(bySubmission))
	for submissionID, group := range bySubmission {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		handled[submissionID] = true
		report, err := s.marketplace.GetFeedSubmissionResult(ctx, submissionID)
		if errors.Is(err, feed.ErrResultNotReady) {
			result.Pending++
			continue
		}
		if err != nil {
			result.Errored++
			s.logger.Error("Failed to fetch processing report",
				zap.String("submission_id", submissionID),
				zap.Error(err))
			continue
		}

		lines := make([]feed.AckLine, 0, len(group))
		for _, doc := range group {
			lines = append(lines, feed.AckLine{
				MessageID:          doc.AckMessageID,
				ExternalDocumentID: doc.ExternalDocumentID,
				Target:             doc,
			})
		}
		feed.ApplyReport(report, lines, now)

		for _, doc := range group {
			if err := s.docRepo.Save(ctx, doc); err != nil {
				return result, fmt.Errorf("save reconciled document %s: %w", doc.ExternalDocumentID, err)
			}
			if doc.AckStatus == feed.AckOK {
				result.Succeeded++
			} else {
				result.Errored++
			}
		}
		s.reconcileSubmission(ctx, submissionID, report, now)
	}

	if err := s.reconcileOutboundFeeds(ctx, handled, result, now); err != nil {
		return result, err
	}

	s.logger.Info("Acknowledgment reconciliation completed",
		zap.Int("submissions", result.Submissions),
		zap.Int("pending", result.Pending),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("errored", result.Errored))
	return result, nil
}

// reconcileOutboundFeeds closes out submissions with no staged documents
// behind them, such as product, price, inventory and fulfillment feeds
func (s *AckService) reconcileOutboundFeeds(ctx context.Context, handled map[string]bool, result *ReconcileResult, at time.Time) error {
	feeds, err := s.feedRepo.FindUnreconciled(ctx)
	if err != nil {
		return fmt.Errorf("find unreconciled feeds: %w", err)
	}
	for _, sf := range feeds {
		if handled[sf.SubmissionID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Submissions++
		report, err := s.marketplace.GetFeedSubmissionResult(ctx, sf.SubmissionID)
		if errors.Is(err, feed.ErrResultNotReady) {
			result.Pending++
			continue
		}
		if err != nil {
			result.Errored++
			s.logger.Error("Failed to fetch processing report",
				zap.String("submission_id", sf.SubmissionID),
				zap.Error(err))
			continue
		}
		s.applyReportToFeed(ctx, sf, report, at)
		if sf.AckStatus == feed.AckOK {
			result.Succeeded++
		} else {
			result.Errored++
		}
	}
	return nil
}

// reconcileSubmission closes out the feed submission record
func (s *AckService) reconcileSubmission(ctx context.Context, submissionID string, report feed.ProcessingReport, at time.Time) {
	sf, err := s.feedRepo.FindBySubmissionID(ctx, submissionID)
	if err != nil {
		s.logger.Warn("Feed submission record not found",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		return
	}
	s.applyReportToFeed(ctx, sf, report, at)
}

// applyReportToFeed maps a processing report onto the submission record,
// saves it and alerts operators when the marketplace rejected anything
func (s *AckService) applyReportToFeed(ctx context.Context, sf *feed.StagedFeed, report feed.ProcessingReport, at time.Time) {
	if batchErr, ok := report.BatchError(); ok {
		sf.ApplyAckResult(sf.ErrorStatus(), batchErr.Description, at)
	} else if report.WithErrors > 0 {
		sf.ApplyAckResult(sf.ErrorStatus(), fmt.Sprintf("%d messages with errors", report.WithErrors), at)
	} else {
		sf.ApplyAckResult(sf.SuccessStatus(), "", at)
	}
	if err := s.feedRepo.Save(ctx, sf); err != nil {
		s.logger.Warn("Failed to save feed submission",
			zap.String("submission_id", sf.SubmissionID),
			zap.Error(err))
	}
	if sf.AckStatus == feed.AckError {
		subject := fmt.Sprintf("%s feed submission %s failed", sf.Kind, sf.SubmissionID)
		if err := s.notifier.NotifyError(ctx, subject, sf.LastError); err != nil {
			s.logger.Warn("Failed to send feed error notification",
				zap.String("submission_id", sf.SubmissionID),
				zap.Error(err))
		}
	}
}
