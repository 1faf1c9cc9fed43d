package feedapp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/feed"
)

func ackableDocument(t *testing.T, id string) *feed.StagedDocument {
	t.Helper()
	d := testDocument(t, id)
	d.MarkExtracted(time.Now())
	return d
}

func TestAcknowledgeDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("submits batch and records submission", func(t *testing.T) {
		docRepo := new(MockStagedDocumentRepository)
		feedRepo := new(MockStagedFeedRepository)
		client := new(MockMarketplaceClient)
		builder := new(MockFeedBuilder)

		d1 := ackableDocument(t, "DOC-1")
		d2 := ackableDocument(t, "DOC-2")
		payload := []byte("<AmazonEnvelope/>")

		docRepo.On("FindAckable", ctx, 100).Return([]*feed.StagedDocument{d1, d2}, nil)
		builder.On("BuildOrderAckFeed", mock.MatchedBy(func(lines []feed.AckLine) bool {
			return len(lines) == 2 && lines[0].MessageID == 1 && lines[1].MessageID == 2
		})).Return(payload, nil)
		client.On("SubmitFeed", ctx, "ORDER_ACKNOWLEDGEMENT", payload).Return("SUB-1", nil)
		docRepo.On("Save", ctx, mock.Anything).Return(nil)
		feedRepo.On("Save", ctx, mock.MatchedBy(func(f *feed.StagedFeed) bool {
			return f.SubmissionID == "SUB-1" && f.MessageCount == 2
		})).Return(nil)

		svc := NewAckService(docRepo, feedRepo, client, builder, new(MockNotifier), zap.NewNop())
		result, err := svc.AcknowledgeDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Acknowledged)
		assert.Equal(t, "SUB-1", result.SubmissionID)
		assert.Equal(t, feed.AckSent, d1.AckStatus)
		assert.Equal(t, 1, d1.AckMessageID)
		assert.Equal(t, 2, d2.AckMessageID)
	})

	t.Run("empty batch submits nothing", func(t *testing.T) {
		docRepo := new(MockStagedDocumentRepository)
		feedRepo := new(MockStagedFeedRepository)
		client := new(MockMarketplaceClient)
		builder := new(MockFeedBuilder)

		docRepo.On("FindAckable", ctx, 100).Return([]*feed.StagedDocument{}, nil)

		svc := NewAckService(docRepo, feedRepo, client, builder, new(MockNotifier), zap.NewNop())
		result, err := svc.AcknowledgeDocuments(ctx)
		require.NoError(t, err)
		assert.Zero(t, result.Acknowledged)
		client.AssertNotCalled(t, "SubmitFeed", mock.Anything, mock.Anything, mock.Anything)
	})
}

type ackFixture struct {
	docRepo  *MockStagedDocumentRepository
	feedRepo *MockStagedFeedRepository
	client   *MockMarketplaceClient
	notifier *MockNotifier
	svc      *AckService
}

func newAckFixture() *ackFixture {
	f := &ackFixture{
		docRepo:  new(MockStagedDocumentRepository),
		feedRepo: new(MockStagedFeedRepository),
		client:   new(MockMarketplaceClient),
		notifier: new(MockNotifier),
	}
	f.svc = NewAckService(f.docRepo, f.feedRepo, f.client, new(MockFeedBuilder), f.notifier, zap.NewNop())
	return f
}

func TestReconcileAckResults(t *testing.T) {
	ctx := context.Background()

	inFlightDocs := func(t *testing.T) (*feed.StagedDocument, *feed.StagedDocument) {
		d1 := ackableDocument(t, "DOC-1")
		d1.MarkAckSent("SUB-1", 1)
		d2 := ackableDocument(t, "DOC-2")
		d2.MarkAckSent("SUB-1", 2)
		return d1, d2
	}

	t.Run("fans per-message results onto documents", func(t *testing.T) {
		f := newAckFixture()
		d1, d2 := inFlightDocs(t)

		f.docRepo.On("FindAckSent", ctx).Return([]*feed.StagedDocument{d1, d2}, nil)
		f.client.On("GetFeedSubmissionResult", ctx, "SUB-1").Return(feed.ProcessingReport{
			SubmissionID: "SUB-1",
			WithErrors:   1,
			Results: []feed.ProcessingResult{
				{MessageID: 2, Code: "Error", Description: "unknown order"},
			},
		}, nil)
		f.docRepo.On("Save", ctx, mock.Anything).Return(nil)

		sf, _ := feed.NewStagedFeed(feed.FeedOrderAck, "SUB-1", 2, time.Now())
		f.feedRepo.On("FindBySubmissionID", ctx, "SUB-1").Return(sf, nil)
		f.feedRepo.On("Save", ctx, sf).Return(nil)
		f.feedRepo.On("FindUnreconciled", ctx).Return([]*feed.StagedFeed{}, nil)
		f.notifier.On("NotifyError", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.ReconcileAckResults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, result.Errored)
		assert.Equal(t, feed.AckOK, d1.AckStatus)
		assert.Equal(t, feed.AckError, d2.AckStatus)
		assert.Equal(t, "unknown order", d2.LastError)
		assert.Equal(t, feed.AckError, sf.AckStatus)
	})

	t.Run("not ready submissions stay pending", func(t *testing.T) {
		f := newAckFixture()
		d1, d2 := inFlightDocs(t)

		f.docRepo.On("FindAckSent", ctx).Return([]*feed.StagedDocument{d1, d2}, nil)
		f.client.On("GetFeedSubmissionResult", ctx, "SUB-1").
			Return(feed.ProcessingReport{}, feed.ErrResultNotReady)
		f.feedRepo.On("FindUnreconciled", ctx).Return([]*feed.StagedFeed{}, nil)

		result, err := f.svc.ReconcileAckResults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Pending)
		assert.Equal(t, feed.AckSent, d1.AckStatus)
		f.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("batch-wide error fails all documents", func(t *testing.T) {
		f := newAckFixture()
		d1, d2 := inFlightDocs(t)

		f.docRepo.On("FindAckSent", ctx).Return([]*feed.StagedDocument{d1, d2}, nil)
		f.client.On("GetFeedSubmissionResult", ctx, "SUB-1").Return(feed.ProcessingReport{
			Results: []feed.ProcessingResult{
				{MessageID: feed.ApplyToAllMessageID, Code: "Rejected", Description: "feed rejected"},
			},
		}, nil)
		f.docRepo.On("Save", ctx, mock.Anything).Return(nil)

		sf, _ := feed.NewStagedFeed(feed.FeedOrderAck, "SUB-1", 2, time.Now())
		f.feedRepo.On("FindBySubmissionID", ctx, "SUB-1").Return(sf, nil)
		f.feedRepo.On("Save", ctx, sf).Return(nil)
		f.feedRepo.On("FindUnreconciled", ctx).Return([]*feed.StagedFeed{}, nil)
		f.notifier.On("NotifyError", ctx, mock.Anything, "feed rejected").Return(nil)

		result, err := f.svc.ReconcileAckResults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Errored)
		assert.Equal(t, "feed rejected", d1.LastError)
		assert.Equal(t, "feed rejected", d2.LastError)
		f.notifier.AssertExpectations(t)
	})

	t.Run("outbound feed submissions reconcile without documents", func(t *testing.T) {
		f := newAckFixture()

		priceFeed, _ := feed.NewStagedFeed(feed.FeedPrice, "SUB-P1", 3, time.Now())
		invFeed, _ := feed.NewStagedFeed(feed.FeedInventory, "SUB-I1", 5, time.Now())

		f.docRepo.On("FindAckSent", ctx).Return([]*feed.StagedDocument{}, nil)
		f.feedRepo.On("FindUnreconciled", ctx).Return([]*feed.StagedFeed{priceFeed, invFeed}, nil)
		f.client.On("GetFeedSubmissionResult", ctx, "SUB-P1").
			Return(feed.ProcessingReport{SubmissionID: "SUB-P1"}, nil)
		f.client.On("GetFeedSubmissionResult", ctx, "SUB-I1").
			Return(feed.ProcessingReport{}, feed.ErrResultNotReady)
		f.feedRepo.On("Save", ctx, priceFeed).Return(nil)

		result, err := f.svc.ReconcileAckResults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Submissions)
		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, result.Pending)
		assert.Equal(t, feed.AckOK, priceFeed.AckStatus)
		require.NotNil(t, priceFeed.ReconciledAt)
		assert.Equal(t, feed.AckSent, invFeed.AckStatus)
	})

	t.Run("rejected outbound feed alerts operators", func(t *testing.T) {
		f := newAckFixture()

		productFeed, _ := feed.NewStagedFeed(feed.FeedProduct, "SUB-X9", 4, time.Now())

		f.docRepo.On("FindAckSent", ctx).Return([]*feed.StagedDocument{}, nil)
		f.feedRepo.On("FindUnreconciled", ctx).Return([]*feed.StagedFeed{productFeed}, nil)
		f.client.On("GetFeedSubmissionResult", ctx, "SUB-X9").Return(feed.ProcessingReport{
			Results: []feed.ProcessingResult{
				{MessageID: feed.ApplyToAllMessageID, Code: "Rejected", Description: "invalid envelope"},
			},
		}, nil)
		f.feedRepo.On("Save", ctx, productFeed).Return(nil)
		f.notifier.On("NotifyError", ctx, mock.MatchedBy(func(subject string) bool {
			return strings.Contains(subject, "PRODUCT") && strings.Contains(subject, "SUB-X9")
		}), "invalid envelope").Return(nil)

		result, err := f.svc.ReconcileAckResults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Errored)
		assert.Equal(t, feed.AckError, productFeed.AckStatus)
		f.notifier.AssertExpectations(t)
	})

	t.Run("already reconciled submission is not polled twice", func(t *testing.T) {
		f := newAckFixture()
		d1, d2 := inFlightDocs(t)

		ackFeed, _ := feed.NewStagedFeed(feed.FeedOrderAck, "SUB-1", 2, time.Now())

		f.docRepo.On("FindAckSent", ctx).Return([]*feed.StagedDocument{d1, d2}, nil)
		f.client.On("GetFeedSubmissionResult", ctx, "SUB-1").
			Return(feed.ProcessingReport{SubmissionID: "SUB-1"}, nil).Once()
		f.docRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.feedRepo.On("FindBySubmissionID", ctx, "SUB-1").Return(ackFeed, nil)
		f.feedRepo.On("Save", ctx, ackFeed).Return(nil)
		f.feedRepo.On("FindUnreconciled", ctx).Return([]*feed.StagedFeed{ackFeed}, nil)

		result, err := f.svc.ReconcileAckResults(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Submissions)
		assert.Equal(t, 2, result.Succeeded)
		f.client.AssertNumberOfCalls(t, "GetFeedSubmissionResult", 1)
	})
}
