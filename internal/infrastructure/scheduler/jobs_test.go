package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	financeapp "github.com/sellercentric/backend/internal/application/finance"
	"github.com/sellercentric/backend/internal/infrastructure/config"
)

type stubPipeline struct {
	calls      []string
	syncErr    error
	extractErr error
	importErr  error
}

func (p *stubPipeline) StorePendingDocuments(_ context.Context) (*feedapp.SyncResult, error) {
	p.calls = append(p.calls, "sync")
	if p.syncErr != nil {
		return nil, p.syncErr
	}
	return &feedapp.SyncResult{Listed: 2, Stored: 2}, nil
}

func (p *stubPipeline) ExtractOrders(_ context.Context) (*feedapp.ExtractResult, error) {
	p.calls = append(p.calls, "extract")
	if p.extractErr != nil {
		return nil, p.extractErr
	}
	return &feedapp.ExtractResult{Documents: 2, OrdersStaged: 3}, nil
}

func (p *stubPipeline) ImportOrders(_ context.Context) (*feedapp.ImportResult, error) {
	p.calls = append(p.calls, "import")
	if p.importErr != nil {
		return nil, p.importErr
	}
	return &feedapp.ImportResult{Attempted: 3, Imported: 3}, nil
}

type stubAcks struct {
	ackErr       error
	reconcileErr error
}

func (a *stubAcks) AcknowledgeDocuments(_ context.Context) (*feedapp.AckResult, error) {
	if a.ackErr != nil {
		return nil, a.ackErr
	}
	return &feedapp.AckResult{Acknowledged: 4, SubmissionID: "SUB-1"}, nil
}

func (a *stubAcks) ReconcileAckResults(_ context.Context) (*feedapp.ReconcileResult, error) {
	if a.reconcileErr != nil {
		return nil, a.reconcileErr
	}
	return &feedapp.ReconcileResult{Submissions: 1, Succeeded: 1}, nil
}

type stubOutbound struct {
	calls        []string
	priceErr     error
	inventoryErr error
}

func (o *stubOutbound) PushProductFeed(_ context.Context) (*feedapp.OutboundResult, error) {
	o.calls = append(o.calls, "product")
	return &feedapp.OutboundResult{Kind: "PRODUCT", Messages: 5}, nil
}

func (o *stubOutbound) PushPriceFeed(_ context.Context) (*feedapp.OutboundResult, error) {
	o.calls = append(o.calls, "price")
	if o.priceErr != nil {
		return nil, o.priceErr
	}
	return &feedapp.OutboundResult{Kind: "PRICE", Messages: 5}, nil
}

func (o *stubOutbound) PushInventoryFeed(_ context.Context) (*feedapp.OutboundResult, error) {
	o.calls = append(o.calls, "inventory")
	if o.inventoryErr != nil {
		return nil, o.inventoryErr
	}
	return &feedapp.OutboundResult{Kind: "INVENTORY", Messages: 5}, nil
}

type stubBalances struct {
	err error
}

func (b *stubBalances) RefreshBalances(_ context.Context) (*financeapp.RefreshResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &financeapp.RefreshResult{Accounts: 10, Refreshed: 10}, nil
}

func testSchedulerConfig() *config.SchedulerConfig {
	return &config.SchedulerConfig{
		Enabled:               true,
		SyncCronSchedule:      "*/15 * * * *",
		AckCronSchedule:       "*/30 * * * *",
		ReconcileCronSchedule: "5,35 * * * *",
		BalanceCronSchedule:   "0 3 * * *",
		OutboundCronSchedule:  "0 */4 * * *",
	}
}

func TestRegisterPipelineJobs(t *testing.T) {
	t.Run("registers all standard jobs", func(t *testing.T) {
		s := newTestScheduler(t)
		err := RegisterPipelineJobs(s, testSchedulerConfig(),
			&stubPipeline{}, &stubAcks{}, &stubOutbound{}, &stubBalances{}, zaptest.NewLogger(t))
		require.NoError(t, err)

		statuses := s.Statuses()
		names := make([]string, 0, len(statuses))
		for _, st := range statuses {
			names = append(names, st.Name)
		}
		assert.Equal(t, []string{
			JobDocumentSync, JobOrderAck, JobAckReconcile, JobBalanceRefresh, JobOutboundFeeds,
		}, names)
	})

	t.Run("rejects a bad schedule from config", func(t *testing.T) {
		s := newTestScheduler(t)
		cfg := testSchedulerConfig()
		cfg.AckCronSchedule = "not a schedule"
		err := RegisterPipelineJobs(s, cfg,
			&stubPipeline{}, &stubAcks{}, &stubOutbound{}, &stubBalances{}, zaptest.NewLogger(t))
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestDocumentSyncJob(t *testing.T) {
	ctx := context.Background()

	t.Run("runs all three stages in order", func(t *testing.T) {
		pipeline := &stubPipeline{}
		job := documentSyncJob(pipeline, zaptest.NewLogger(t))

		require.NoError(t, job(ctx))
		assert.Equal(t, []string{"sync", "extract", "import"}, pipeline.calls)
	})

	t.Run("later stages run when an earlier one fails", func(t *testing.T) {
		pipeline := &stubPipeline{syncErr: errors.New("listing timed out")}
		job := documentSyncJob(pipeline, zaptest.NewLogger(t))

		err := job(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing timed out")
		assert.Equal(t, []string{"sync", "extract", "import"}, pipeline.calls)
	})

	t.Run("joins errors from multiple stages", func(t *testing.T) {
		pipeline := &stubPipeline{
			extractErr: errors.New("bad envelope"),
			importErr:  errors.New("party lookup failed"),
		}
		job := documentSyncJob(pipeline, zaptest.NewLogger(t))

		err := job(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad envelope")
		assert.Contains(t, err.Error(), "party lookup failed")
	})
}

func TestOutboundFeedsJob(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes all feed kinds", func(t *testing.T) {
		outbound := &stubOutbound{}
		job := outboundFeedsJob(outbound, zaptest.NewLogger(t))

		require.NoError(t, job(ctx))
		assert.Equal(t, []string{"product", "price", "inventory"}, outbound.calls)
	})

	t.Run("a failed kind does not block the rest", func(t *testing.T) {
		outbound := &stubOutbound{priceErr: errors.New("price feed rejected")}
		job := outboundFeedsJob(outbound, zaptest.NewLogger(t))

		err := job(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price feed rejected")
		assert.Equal(t, []string{"product", "price", "inventory"}, outbound.calls)
	})
}

func TestAckAndBalanceJobs(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	t.Run("ack job", func(t *testing.T) {
		require.NoError(t, orderAckJob(&stubAcks{}, log)(ctx))

		err := orderAckJob(&stubAcks{ackErr: errors.New("submit failed")}, log)(ctx)
		assert.ErrorContains(t, err, "submit failed")
	})

	t.Run("reconcile job", func(t *testing.T) {
		require.NoError(t, ackReconcileJob(&stubAcks{}, log)(ctx))

		err := ackReconcileJob(&stubAcks{reconcileErr: errors.New("poll failed")}, log)(ctx)
		assert.ErrorContains(t, err, "poll failed")
	})

	t.Run("balance job", func(t *testing.T) {
		require.NoError(t, balanceRefreshJob(&stubBalances{}, log)(ctx))

		err := balanceRefreshJob(&stubBalances{err: errors.New("sum query failed")}, log)(ctx)
		assert.ErrorContains(t, err, "sum query failed")
	})
}
