package feedapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// ExtractResult summarizes one ExtractOrders run
type ExtractResult struct {
	Documents     int `json:"documents"`
	OrdersStaged  int `json:"orders_staged"`
	OrdersSkipped int `json:"orders_skipped"`
	Failed        int `json:"failed"`
}

// ExtractService pulls orders out of staged documents into staging rows
type ExtractService struct {
	docRepo   feed.StagedDocumentRepository
	orderRepo feed.StagedOrderRepository
	parser    feed.ReportParser
	policy    feed.RetryPolicy
	batchSize int
	logger    *zap.Logger
}

// NewExtractService creates a new ExtractService
func NewExtractService(
	docRepo feed.StagedDocumentRepository,
	orderRepo feed.StagedOrderRepository,
	parser feed.ReportParser,
	policy feed.RetryPolicy,
	logger *zap.Logger,
) *ExtractService {
	return &ExtractService{
		docRepo:   docRepo,
		orderRepo: orderRepo,
		parser:    parser,
		policy:    policy,
		batchSize: 50,
		logger:    logger,
	}
}

// SetBatchSize overrides how many documents one run processes
func (s *ExtractService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// ExtractOrders processes extractable documents under the retry ceiling.
// Each document's staging rows and status change are persisted in one
// transaction; a parse failure marks the document EXTRACT_ERROR and moves
// on.
func (s *ExtractService) ExtractOrders(ctx context.Context) (*ExtractResult, error) {
	docs, err := s.docRepo.FindExtractable(ctx, s.policy, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("find extractable documents: %w", err)
	}

	result := &ExtractResult{Documents: len(docs)}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		staged, skipped, err := s.extractDocument(ctx, doc)
		if err != nil {
			result.Failed++
			s.logger.Error("Order extraction failed",
				zap.String("document_id", doc.ExternalDocumentID),
				zap.Int("failure_count", doc.FailureCount),
				zap.Error(err))
			continue
		}
		result.OrdersStaged += staged
		result.OrdersSkipped += skipped
	}

	s.logger.Info("Order extraction completed",
		zap.Int("documents", result.Documents),
		zap.Int("orders_staged", result.OrdersStaged),
		zap.Int("orders_skipped", result.OrdersSkipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *ExtractService) extractDocument(ctx context.Context, doc *feed.StagedDocument) (staged, skipped int, err error) {
	extracted, parseErr := s.parser.ParseOrderReport(doc.Payload)
	if parseErr != nil {
		doc.MarkExtractError(parseErr)
		if saveErr := s.docRepo.Save(ctx, doc); saveErr != nil {
			return 0, 0, saveErr
		}
		return 0, 0, fmt.Errorf("parse order report: %w", parseErr)
	}

	orders := make([]*feed.StagedOrder, 0, len(extracted))
	for _, eo := range extracted {
		// extraction is idempotent: an external order id staged by an
		// earlier run is silently skipped
		if _, findErr := s.orderRepo.FindByExternalID(ctx, eo.ExternalOrderID); findErr == nil {
			skipped++
			continue
		}
		so, buildErr := buildStagedOrder(doc, eo)
		if buildErr != nil {
			doc.MarkExtractError(buildErr)
			if saveErr := s.docRepo.Save(ctx, doc); saveErr != nil {
				return 0, 0, saveErr
			}
			return 0, 0, buildErr
		}
		orders = append(orders, so)
	}

	doc.MarkExtracted(time.Now())
	if err := s.docRepo.SaveExtraction(ctx, doc, orders); err != nil {
		return 0, 0, fmt.Errorf("save extraction: %w", err)
	}
	return len(orders), skipped, nil
}

func buildStagedOrder(doc *feed.StagedDocument, eo feed.ExtractedOrder) (*feed.StagedOrder, error) {
	so, err := feed.NewStagedOrder(doc.ID, eo.ExternalOrderID, eo.OrderDate)
	if err != nil {
		return nil, err
	}
	so.BuyerName = eo.BuyerName
	so.BuyerEmail = eo.BuyerEmail
	so.BuyerPhone = eo.BuyerPhone
	so.ShipToName = eo.ShipToName
	so.ShipAddress1 = eo.ShipAddress1
	so.ShipAddress2 = eo.ShipAddress2
	so.ShipCity = eo.ShipCity
	so.ShipState = eo.ShipState
	so.ShipCountry = eo.ShipCountry
	so.ShipPostalCode = eo.ShipPostalCode
	so.ShipPhone = eo.ShipPhone
	so.ShipmentMethod = eo.ShipmentMethod
	so.FulfillmentClass = eo.FulfillmentClass
	so.CurrencyCode = eo.CurrencyCode
	for _, item := range eo.Items {
		so.AddItem(feed.StagedOrderItem{
			ExternalItemID: item.ExternalItemID,
			ProductCode:    item.ProductCode,
			Description:    item.Description,
			Quantity:       item.Quantity,
			Components:     item.Components,
			Taxes:          item.Taxes,
			Promotions:     item.Promotions,
			Fees:           item.Fees,
		})
	}
	return so, nil
}
