package feed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrResultNotReady is returned by GetFeedSubmissionResult while the
// marketplace is still processing a submitted feed
var ErrResultNotReady = errors.New("feed: submission result not ready")

// PendingDocument identifies a document the marketplace holds for pickup
type PendingDocument struct {
	ExternalDocumentID string
	Type               DocumentType
	GeneratedAt        time.Time
}

// MarketplaceClient is the outbound port to the marketplace's feed API.
// Implementations live in infrastructure.
type MarketplaceClient interface {
	// ListPendingDocuments returns documents of the given type awaiting
	// download
	ListPendingDocuments(ctx context.Context, docType DocumentType) ([]PendingDocument, error)
	// GetDocument downloads a document's raw payload
	GetDocument(ctx context.Context, externalDocumentID string) ([]byte, error)
	// SubmitFeed uploads a feed document and returns the marketplace's
	// submission id
	SubmitFeed(ctx context.Context, feedType string, payload []byte) (string, error)
	// GetFeedSubmissionResult fetches the processing report for a prior
	// submission. Returns ErrResultNotReady while processing continues.
	GetFeedSubmissionResult(ctx context.Context, submissionID string) (ProcessingReport, error)
}

// ExtractedOrder is the parser's flat view of one order inside a report
// payload, before staging
type ExtractedOrder struct {
	ExternalOrderID  string
	OrderDate        time.Time
	BuyerName        string
	BuyerEmail       string
	BuyerPhone       string
	ShipToName       string
	ShipAddress1     string
	ShipAddress2     string
	ShipCity         string
	ShipState        string
	ShipCountry      string
	ShipPostalCode   string
	ShipPhone        string
	ShipmentMethod   string
	FulfillmentClass string
	CurrencyCode     string
	Items            []ExtractedItem
}

// ExtractedItem is one parsed order line
type ExtractedItem struct {
	ExternalItemID string
	ProductCode    string
	Description    string
	Quantity       decimal.Decimal
	Components     []StagedPriceComponent
	Taxes          []StagedTax
	Promotions     []StagedPromo
	Fees           []StagedFee
}

// ReportParser decodes a raw order report payload into extracted orders.
// Implementations live in infrastructure.
type ReportParser interface {
	ParseOrderReport(payload []byte) ([]ExtractedOrder, error)
	// Validate checks payload well-formedness without full extraction
	Validate(payload []byte) error
}
