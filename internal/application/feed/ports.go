package feedapp

import (
	"context"
	"time"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// ObjectStorageService archives raw feed payloads. Implementations live in
// infrastructure (S3 or a local stub).
type ObjectStorageService interface {
	// PutObject stores a payload under the given key
	PutObject(ctx context.Context, storageKey string, payload []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for retrieving an
	// archived payload
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// NotificationService delivers operator alerts. Failures to notify are
// logged, never propagated.
type NotificationService interface {
	NotifyError(ctx context.Context, subject, body string) error
}

// FeedBuilder assembles outbound envelope XML documents. Implementations
// live in infrastructure.
type FeedBuilder interface {
	BuildOrderAckFeed(lines []feed.AckLine) ([]byte, error)
	BuildProductFeed(messages []ProductFeedMessage) ([]byte, error)
	BuildPriceFeed(messages []PriceFeedMessage) ([]byte, error)
	BuildInventoryFeed(messages []InventoryFeedMessage) ([]byte, error)
	BuildOrderFulfillmentFeed(messages []FulfillmentFeedMessage) ([]byte, error)
}

// ProductFeedMessage is one product in an outbound product feed
type ProductFeedMessage struct {
	SKU         string
	UPC         string
	Title       string
	Description string
}

// PriceFeedMessage is one price update in an outbound price feed
type PriceFeedMessage struct {
	SKU      string
	Price    string
	Currency string
}

// InventoryFeedMessage is one stock level in an outbound inventory feed
type InventoryFeedMessage struct {
	SKU      string
	Quantity int
}

// FulfillmentFeedMessage confirms shipment of an imported order
type FulfillmentFeedMessage struct {
	ExternalOrderID string
	CarrierCode     string
	ShippingMethod  string
	TrackingNumber  string
	FulfilledAt     time.Time
}
