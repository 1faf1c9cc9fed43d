package feedapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sellercentric/backend/internal/domain/catalog"
	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/domain/order"
	"github.com/sellercentric/backend/internal/domain/party"
	"github.com/sellercentric/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// feed domain mocks
// ---------------------------------------------------------------------------

type MockStagedDocumentRepository struct {
	mock.Mock
}

func (m *MockStagedDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*feed.StagedDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feed.StagedDocument), args.Error(1)
}

func (m *MockStagedDocumentRepository) FindByExternalID(ctx context.Context, externalDocumentID string) (*feed.StagedDocument, error) {
	args := m.Called(ctx, externalDocumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feed.StagedDocument), args.Error(1)
}

func (m *MockStagedDocumentRepository) Save(ctx context.Context, d *feed.StagedDocument) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockStagedDocumentRepository) FindExtractable(ctx context.Context, policy feed.RetryPolicy, limit int) ([]*feed.StagedDocument, error) {
	args := m.Called(ctx, policy, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedDocument), args.Error(1)
}

func (m *MockStagedDocumentRepository) FindAckable(ctx context.Context, limit int) ([]*feed.StagedDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedDocument), args.Error(1)
}

func (m *MockStagedDocumentRepository) FindAckSent(ctx context.Context) ([]*feed.StagedDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedDocument), args.Error(1)
}

func (m *MockStagedDocumentRepository) SaveExtraction(ctx context.Context, d *feed.StagedDocument, orders []*feed.StagedOrder) error {
	args := m.Called(ctx, d, orders)
	return args.Error(0)
}

func (m *MockStagedDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*feed.StagedDocument, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedDocument), args.Error(1)
}

func (m *MockStagedDocumentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockStagedOrderRepository struct {
	mock.Mock
}

func (m *MockStagedOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*feed.StagedOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feed.StagedOrder), args.Error(1)
}

func (m *MockStagedOrderRepository) FindByExternalID(ctx context.Context, externalOrderID string) (*feed.StagedOrder, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feed.StagedOrder), args.Error(1)
}

func (m *MockStagedOrderRepository) Save(ctx context.Context, s *feed.StagedOrder) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStagedOrderRepository) FindImportable(ctx context.Context, policy feed.RetryPolicy, limit int) ([]*feed.StagedOrder, error) {
	args := m.Called(ctx, policy, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedOrder), args.Error(1)
}

func (m *MockStagedOrderRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*feed.StagedOrder, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedOrder), args.Error(1)
}

func (m *MockStagedOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*feed.StagedOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedOrder), args.Error(1)
}

func (m *MockStagedOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockStagedFeedRepository struct {
	mock.Mock
}

func (m *MockStagedFeedRepository) FindByID(ctx context.Context, id uuid.UUID) (*feed.StagedFeed, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feed.StagedFeed), args.Error(1)
}

func (m *MockStagedFeedRepository) FindBySubmissionID(ctx context.Context, submissionID string) (*feed.StagedFeed, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feed.StagedFeed), args.Error(1)
}

func (m *MockStagedFeedRepository) Save(ctx context.Context, f *feed.StagedFeed) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockStagedFeedRepository) FindUnreconciled(ctx context.Context) ([]*feed.StagedFeed, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feed.StagedFeed), args.Error(1)
}

type MockMarketplaceClient struct {
	mock.Mock
}

func (m *MockMarketplaceClient) ListPendingDocuments(ctx context.Context, docType feed.DocumentType) ([]feed.PendingDocument, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]feed.PendingDocument), args.Error(1)
}

func (m *MockMarketplaceClient) GetDocument(ctx context.Context, externalDocumentID string) ([]byte, error) {
	args := m.Called(ctx, externalDocumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockMarketplaceClient) SubmitFeed(ctx context.Context, feedType string, payload []byte) (string, error) {
	args := m.Called(ctx, feedType, payload)
	return args.String(0), args.Error(1)
}

func (m *MockMarketplaceClient) GetFeedSubmissionResult(ctx context.Context, submissionID string) (feed.ProcessingReport, error) {
	args := m.Called(ctx, submissionID)
	return args.Get(0).(feed.ProcessingReport), args.Error(1)
}

type MockReportParser struct {
	mock.Mock
}

func (m *MockReportParser) ParseOrderReport(payload []byte) ([]feed.ExtractedOrder, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]feed.ExtractedOrder), args.Error(1)
}

func (m *MockReportParser) Validate(payload []byte) error {
	args := m.Called(payload)
	return args.Error(0)
}

type MockFeedBuilder struct {
	mock.Mock
}

func (m *MockFeedBuilder) BuildOrderAckFeed(lines []feed.AckLine) ([]byte, error) {
	args := m.Called(lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFeedBuilder) BuildProductFeed(messages []ProductFeedMessage) ([]byte, error) {
	args := m.Called(messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFeedBuilder) BuildPriceFeed(messages []PriceFeedMessage) ([]byte, error) {
	args := m.Called(messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFeedBuilder) BuildInventoryFeed(messages []InventoryFeedMessage) ([]byte, error) {
	args := m.Called(messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFeedBuilder) BuildOrderFulfillmentFeed(messages []FulfillmentFeedMessage) ([]byte, error) {
	args := m.Called(messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, storageKey string, payload []byte, contentType string) error {
	args := m.Called(ctx, storageKey, payload, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyError(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

// ---------------------------------------------------------------------------
// order / party / catalog mocks
// ---------------------------------------------------------------------------

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) SumOpenOrderTotalsByBillingAccount(ctx context.Context, billingAccountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, billingAccountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockOrderNumberService struct {
	mock.Mock
}

func (m *MockOrderNumberService) NextOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Party), args.Error(1)
}

func (m *MockPartyRepository) FindByExternalEmail(ctx context.Context, email string) (*party.Party, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Party), args.Error(1)
}

func (m *MockPartyRepository) Save(ctx context.Context, p *party.Party) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*party.Party, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*party.Party), args.Error(1)
}

func (m *MockPartyRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByUPC(ctx context.Context, upc string) (*catalog.Product, error) {
	args := m.Called(ctx, upc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Reserve(ctx context.Context, facilityID string, productID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, facilityID, productID, quantity)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockStockProvider struct {
	mock.Mock
}

func (m *MockStockProvider) AvailableQuantity(ctx context.Context, sku string) (int, error) {
	args := m.Called(ctx, sku)
	return args.Int(0), args.Error(1)
}

type MockGeoRepository struct {
	mock.Mock
}

func (m *MockGeoRepository) FindByCode(ctx context.Context, kind geo.GeoKind, code string) (*geo.Geo, error) {
	args := m.Called(ctx, kind, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Geo), args.Error(1)
}

func (m *MockGeoRepository) FindByAbbreviation(ctx context.Context, kind geo.GeoKind, abbrev string) (*geo.Geo, error) {
	args := m.Called(ctx, kind, abbrev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Geo), args.Error(1)
}

func (m *MockGeoRepository) FindByName(ctx context.Context, kind geo.GeoKind, name string) (*geo.Geo, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Geo), args.Error(1)
}

type MockTaxJurisdictionRepository struct {
	mock.Mock
}

func (m *MockTaxJurisdictionRepository) FindMapping(ctx context.Context, level geo.JurisdictionLevel, name, stateCode string) (*geo.TaxJurisdictionMapping, error) {
	args := m.Called(ctx, level, name, stateCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.TaxJurisdictionMapping), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) SaveImport(ctx context.Context, p *party.Party, o *order.Order, so *feed.StagedOrder) error {
	args := m.Called(ctx, p, o, so)
	return args.Error(0)
}
