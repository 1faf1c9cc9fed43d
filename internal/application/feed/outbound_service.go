package feedapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/catalog"
	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// StockLevelProvider reports sellable quantities for the outbound
// inventory feed
type StockLevelProvider interface {
	AvailableQuantity(ctx context.Context, sku string) (int, error)
}

// OutboundResult summarizes one outbound feed submission
type OutboundResult struct {
	Kind         string `json:"kind"`
	Messages     int    `json:"messages"`
	SubmissionID string `json:"submission_id,omitempty"`
}

// OutboundFeedService pushes product, price, inventory and fulfillment
// feeds to the marketplace. Every submission is recorded as a StagedFeed
// so its processing report flows through the same reconciliation loop as
// acknowledgments.
type OutboundFeedService struct {
	productRepo catalog.ProductRepository
	feedRepo    feed.StagedFeedRepository
	marketplace feed.MarketplaceClient
	builder     FeedBuilder
	stock       StockLevelProvider
	logger      *zap.Logger
}

// NewOutboundFeedService creates a new OutboundFeedService
func NewOutboundFeedService(
	productRepo catalog.ProductRepository,
	feedRepo feed.StagedFeedRepository,
	marketplace feed.MarketplaceClient,
	builder FeedBuilder,
	stock StockLevelProvider,
	logger *zap.Logger,
) *OutboundFeedService {
	return &OutboundFeedService{
		productRepo: productRepo,
		feedRepo:    feedRepo,
		marketplace: marketplace,
		builder:     builder,
		stock:       stock,
		logger:      logger,
	}
}

func (s *OutboundFeedService) activeProducts(ctx context.Context) ([]catalog.Product, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 1000
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	active := products[:0]
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

// PushProductFeed submits the catalog's active products
func (s *OutboundFeedService) PushProductFeed(ctx context.Context) (*OutboundResult, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	messages := make([]ProductFeedMessage, 0, len(products))
	for _, p := range products {
		messages = append(messages, ProductFeedMessage{
			SKU:         p.SKU,
			UPC:         p.UPC,
			Title:       p.Name,
			Description: p.Description,
		})
	}
	payload, err := s.builder.BuildProductFeed(messages)
	if err != nil {
		return nil, fmt.Errorf("build product feed: %w", err)
	}
	return s.submit(ctx, feed.FeedProduct, payload, len(messages))
}

// PushPriceFeed submits current list prices
func (s *OutboundFeedService) PushPriceFeed(ctx context.Context) (*OutboundResult, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	messages := make([]PriceFeedMessage, 0, len(products))
	for _, p := range products {
		messages = append(messages, PriceFeedMessage{
			SKU:      p.SKU,
			Price:    p.ListPrice.StringFixed(2),
			Currency: string(valueobject.DefaultCurrency),
		})
	}
	payload, err := s.builder.BuildPriceFeed(messages)
	if err != nil {
		return nil, fmt.Errorf("build price feed: %w", err)
	}
	return s.submit(ctx, feed.FeedPrice, payload, len(messages))
}

// PushInventoryFeed submits sellable quantities
func (s *OutboundFeedService) PushInventoryFeed(ctx context.Context) (*OutboundResult, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	messages := make([]InventoryFeedMessage, 0, len(products))
	for _, p := range products {
		qty, err := s.stock.AvailableQuantity(ctx, p.SKU)
		if err != nil {
			s.logger.Warn("Stock level unavailable, reporting zero",
				zap.String("sku", p.SKU),
				zap.Error(err))
			qty = 0
		}
		messages = append(messages, InventoryFeedMessage{SKU: p.SKU, Quantity: qty})
	}
	payload, err := s.builder.BuildInventoryFeed(messages)
	if err != nil {
		return nil, fmt.Errorf("build inventory feed: %w", err)
	}
	return s.submit(ctx, feed.FeedInventory, payload, len(messages))
}

// PushFulfillmentFeed confirms shipments back to the marketplace
func (s *OutboundFeedService) PushFulfillmentFeed(ctx context.Context, messages []FulfillmentFeedMessage) (*OutboundResult, error) {
	if len(messages) == 0 {
		return &OutboundResult{Kind: feed.FeedOrderFulfillment.String()}, nil
	}
	payload, err := s.builder.BuildOrderFulfillmentFeed(messages)
	if err != nil {
		return nil, fmt.Errorf("build fulfillment feed: %w", err)
	}
	return s.submit(ctx, feed.FeedOrderFulfillment, payload, len(messages))
}

func (s *OutboundFeedService) submit(ctx context.Context, kind feed.FeedKind, payload []byte, messages int) (*OutboundResult, error) {
	if messages == 0 {
		return &OutboundResult{Kind: kind.String()}, nil
	}
	submissionID, err := s.marketplace.SubmitFeed(ctx, kind.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("submit %s feed: %w", kind, err)
	}
	sf, err := feed.NewStagedFeed(kind, submissionID, messages, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.feedRepo.Save(ctx, sf); err != nil {
		return nil, fmt.Errorf("save feed submission: %w", err)
	}
	s.logger.Info("Outbound feed submitted",
		zap.String("kind", kind.String()),
		zap.String("submission_id", submissionID),
		zap.Int("messages", messages))
	return &OutboundResult{Kind: kind.String(), Messages: messages, SubmissionID: submissionID}, nil
}
