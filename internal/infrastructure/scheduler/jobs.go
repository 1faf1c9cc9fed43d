package scheduler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	financeapp "github.com/sellercentric/backend/internal/application/finance"
	"github.com/sellercentric/backend/internal/infrastructure/config"
)

// Job names, also used as manual trigger identifiers on the admin API
const (
	JobDocumentSync   = "document-sync"
	JobOrderAck       = "order-ack"
	JobAckReconcile   = "ack-reconcile"
	JobBalanceRefresh = "balance-refresh"
	JobOutboundFeeds  = "outbound-feeds"
)

// DocumentPipeline runs the inbound staging pipeline stages
type DocumentPipeline interface {
	StorePendingDocuments(ctx context.Context) (*feedapp.SyncResult, error)
	ExtractOrders(ctx context.Context) (*feedapp.ExtractResult, error)
	ImportOrders(ctx context.Context) (*feedapp.ImportResult, error)
}

// AckPipeline runs the two-phase acknowledgment loop
type AckPipeline interface {
	AcknowledgeDocuments(ctx context.Context) (*feedapp.AckResult, error)
	ReconcileAckResults(ctx context.Context) (*feedapp.ReconcileResult, error)
}

// OutboundPipeline pushes catalog state to the marketplace
type OutboundPipeline interface {
	PushProductFeed(ctx context.Context) (*feedapp.OutboundResult, error)
	PushPriceFeed(ctx context.Context) (*feedapp.OutboundResult, error)
	PushInventoryFeed(ctx context.Context) (*feedapp.OutboundResult, error)
}

// BalanceRefresher recomputes billing account balances
type BalanceRefresher interface {
	RefreshBalances(ctx context.Context) (*financeapp.RefreshResult, error)
}

// pipelineServices splits the three inbound stages across the services
// that implement them, so DocumentPipeline can be satisfied without a
// wrapper type in the wiring code.
type pipelineServices struct {
	sync    *feedapp.DocumentSyncService
	extract *feedapp.ExtractService
	imports *feedapp.ImportService
}

func (p pipelineServices) StorePendingDocuments(ctx context.Context) (*feedapp.SyncResult, error) {
	return p.sync.StorePendingDocuments(ctx)
}

func (p pipelineServices) ExtractOrders(ctx context.Context) (*feedapp.ExtractResult, error) {
	return p.extract.ExtractOrders(ctx)
}

func (p pipelineServices) ImportOrders(ctx context.Context) (*feedapp.ImportResult, error) {
	return p.imports.ImportOrders(ctx)
}

// NewDocumentPipeline bundles the sync, extract and import services
func NewDocumentPipeline(sync *feedapp.DocumentSyncService, extract *feedapp.ExtractService, imports *feedapp.ImportService) DocumentPipeline {
	return pipelineServices{sync: sync, extract: extract, imports: imports}
}

// RegisterPipelineJobs registers the standard background jobs with the
// scheduler using the cron expressions from configuration.
func RegisterPipelineJobs(
	s *JobScheduler,
	cfg *config.SchedulerConfig,
	pipeline DocumentPipeline,
	acks AckPipeline,
	outbound OutboundPipeline,
	balances BalanceRefresher,
	log *zap.Logger,
) error {
	jobs := []Job{
		{Name: JobDocumentSync, Schedule: cfg.SyncCronSchedule, Run: documentSyncJob(pipeline, log)},
		{Name: JobOrderAck, Schedule: cfg.AckCronSchedule, Run: orderAckJob(acks, log)},
		{Name: JobAckReconcile, Schedule: cfg.ReconcileCronSchedule, Run: ackReconcileJob(acks, log)},
		{Name: JobBalanceRefresh, Schedule: cfg.BalanceCronSchedule, Run: balanceRefreshJob(balances, log)},
		{Name: JobOutboundFeeds, Schedule: cfg.OutboundCronSchedule, Run: outboundFeedsJob(outbound, log)},
	}
	for _, job := range jobs {
		if err := s.Register(job); err != nil {
			return err
		}
	}
	return nil
}

// documentSyncJob runs download, extract and import as one pass. Later
// stages still run when an earlier one fails so documents already staged
// keep moving through the pipeline.
func documentSyncJob(pipeline DocumentPipeline, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		var errs []error

		syncRes, err := pipeline.StorePendingDocuments(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("document sync: %w", err))
		} else {
			log.Info("Document sync pass finished",
				zap.Int("listed", syncRes.Listed),
				zap.Int("stored", syncRes.Stored),
				zap.Int("skipped", syncRes.Skipped),
				zap.Int("failed", syncRes.Failed),
			)
		}

		extractRes, err := pipeline.ExtractOrders(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("order extract: %w", err))
		} else {
			log.Info("Order extract pass finished",
				zap.Int("documents", extractRes.Documents),
				zap.Int("orders_staged", extractRes.OrdersStaged),
				zap.Int("orders_skipped", extractRes.OrdersSkipped),
				zap.Int("failed", extractRes.Failed),
			)
		}

		importRes, err := pipeline.ImportOrders(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("order import: %w", err))
		} else {
			log.Info("Order import pass finished",
				zap.Int("attempted", importRes.Attempted),
				zap.Int("imported", importRes.Imported),
				zap.Int("skipped", importRes.Skipped),
				zap.Int("failed", importRes.Failed),
			)
		}

		return errors.Join(errs...)
	}
}

func orderAckJob(acks AckPipeline, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		res, err := acks.AcknowledgeDocuments(ctx)
		if err != nil {
			return fmt.Errorf("order ack: %w", err)
		}
		log.Info("Acknowledgment pass finished",
			zap.Int("acknowledged", res.Acknowledged),
			zap.String("submission_id", res.SubmissionID),
		)
		return nil
	}
}

func ackReconcileJob(acks AckPipeline, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		res, err := acks.ReconcileAckResults(ctx)
		if err != nil {
			return fmt.Errorf("ack reconcile: %w", err)
		}
		log.Info("Reconcile pass finished",
			zap.Int("submissions", res.Submissions),
			zap.Int("pending", res.Pending),
			zap.Int("succeeded", res.Succeeded),
			zap.Int("errored", res.Errored),
		)
		return nil
	}
}

func balanceRefreshJob(balances BalanceRefresher, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		res, err := balances.RefreshBalances(ctx)
		if err != nil {
			return fmt.Errorf("balance refresh: %w", err)
		}
		log.Info("Balance refresh pass finished",
			zap.Int("accounts", res.Accounts),
			zap.Int("refreshed", res.Refreshed),
			zap.Int("failed", res.Failed),
		)
		return nil
	}
}

// outboundFeedsJob pushes the product, price and inventory feeds in
// sequence. Feed kinds are independent, a failed push does not block the
// remaining kinds.
func outboundFeedsJob(outbound OutboundPipeline, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		pushes := []struct {
			name string
			push func(ctx context.Context) (*feedapp.OutboundResult, error)
		}{
			{"product", outbound.PushProductFeed},
			{"price", outbound.PushPriceFeed},
			{"inventory", outbound.PushInventoryFeed},
		}

		var errs []error
		for _, p := range pushes {
			res, err := p.push(ctx)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s feed: %w", p.name, err))
				continue
			}
			log.Info("Outbound feed pushed",
				zap.String("kind", res.Kind),
				zap.Int("messages", res.Messages),
				zap.String("submission_id", res.SubmissionID),
			)
		}
		return errors.Join(errs...)
	}
}
