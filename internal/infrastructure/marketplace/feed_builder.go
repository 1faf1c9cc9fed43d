package marketplace

import (
	"encoding/xml"
	"fmt"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	"github.com/sellercentric/backend/internal/domain/feed"
)

// feedDocumentVersion is the envelope schema version submitted feeds declare
const feedDocumentVersion = "1.01"

// operationUpdate is the operation type for upsert-style feed messages
const operationUpdate = "Update"

// feedEnvelope is the wire shape of an outbound feed document
type feedEnvelope struct {
	XMLName     xml.Name      `xml:"Envelope"`
	Header      feedHeader    `xml:"Header"`
	MessageType string        `xml:"MessageType"`
	Messages    []feedMessage `xml:"Message"`
}

type feedHeader struct {
	DocumentVersion    string `xml:"DocumentVersion"`
	MerchantIdentifier string `xml:"MerchantIdentifier"`
}

// Body element names come from each body struct's XMLName field
type feedMessage struct {
	MessageID     int    `xml:"MessageID"`
	OperationType string `xml:"OperationType"`
	Body          interface{}
}

type ackMessageBody struct {
	XMLName    xml.Name `xml:"OrderAcknowledgement"`
	DocumentID string   `xml:"DocumentID"`
	StatusCode string   `xml:"StatusCode"`
}

type productMessageBody struct {
	XMLName     xml.Name `xml:"Product"`
	SKU         string   `xml:"SKU"`
	UPC         string   `xml:"StandardProductID>UPC,omitempty"`
	Title       string   `xml:"DescriptionData>Title"`
	Description string   `xml:"DescriptionData>Description,omitempty"`
}

type priceMessageBody struct {
	XMLName xml.Name      `xml:"Price"`
	SKU     string        `xml:"SKU"`
	Price   currencyValue `xml:"StandardPrice"`
}

type currencyValue struct {
	Currency string `xml:"currency,attr"`
	Value    string `xml:",chardata"`
}

type inventoryMessageBody struct {
	XMLName  xml.Name `xml:"Inventory"`
	SKU      string   `xml:"SKU"`
	Quantity int      `xml:"Quantity"`
}

type fulfillmentMessageBody struct {
	XMLName         xml.Name `xml:"OrderFulfillment"`
	ExternalOrderID string   `xml:"OrderID"`
	FulfillmentDate string   `xml:"FulfillmentDate"`
	CarrierCode     string   `xml:"FulfillmentData>CarrierCode"`
	ShippingMethod  string   `xml:"FulfillmentData>ShippingMethod,omitempty"`
	TrackingNumber  string   `xml:"FulfillmentData>ShipperTrackingNumber,omitempty"`
}

// FeedBuilder assembles outbound envelope XML feed documents
type FeedBuilder struct {
	merchantID string
}

// NewFeedBuilder creates a FeedBuilder stamping feeds with the given
// merchant identifier
func NewFeedBuilder(merchantID string) *FeedBuilder {
	return &FeedBuilder{merchantID: merchantID}
}

// BuildOrderAckFeed assembles an acknowledgment feed, one message per
// batch line, preserving the batch's message ids
func (b *FeedBuilder) BuildOrderAckFeed(lines []feed.AckLine) ([]byte, error) {
	messages := make([]feedMessage, 0, len(lines))
	for _, line := range lines {
		messages = append(messages, feedMessage{
			MessageID:     line.MessageID,
			OperationType: operationUpdate,
			Body: ackMessageBody{
				DocumentID: line.ExternalDocumentID,
				StatusCode: "Success",
			},
		})
	}
	return b.marshalEnvelope("OrderAcknowledgement", messages)
}

// BuildProductFeed assembles a product catalog feed
func (b *FeedBuilder) BuildProductFeed(products []feedapp.ProductFeedMessage) ([]byte, error) {
	messages := make([]feedMessage, 0, len(products))
	for i, p := range products {
		messages = append(messages, feedMessage{
			MessageID:     i + 1,
			OperationType: operationUpdate,
			Body: productMessageBody{
				SKU:         p.SKU,
				UPC:         p.UPC,
				Title:       p.Title,
				Description: p.Description,
			},
		})
	}
	return b.marshalEnvelope("Product", messages)
}

// BuildPriceFeed assembles a price update feed
func (b *FeedBuilder) BuildPriceFeed(prices []feedapp.PriceFeedMessage) ([]byte, error) {
	messages := make([]feedMessage, 0, len(prices))
	for i, p := range prices {
		messages = append(messages, feedMessage{
			MessageID:     i + 1,
			OperationType: operationUpdate,
			Body: priceMessageBody{
				SKU:   p.SKU,
				Price: currencyValue{Currency: p.Currency, Value: p.Price},
			},
		})
	}
	return b.marshalEnvelope("Price", messages)
}

// BuildInventoryFeed assembles a stock level feed
func (b *FeedBuilder) BuildInventoryFeed(levels []feedapp.InventoryFeedMessage) ([]byte, error) {
	messages := make([]feedMessage, 0, len(levels))
	for i, l := range levels {
		messages = append(messages, feedMessage{
			MessageID:     i + 1,
			OperationType: operationUpdate,
			Body: inventoryMessageBody{
				SKU:      l.SKU,
				Quantity: l.Quantity,
			},
		})
	}
	return b.marshalEnvelope("Inventory", messages)
}

// BuildOrderFulfillmentFeed assembles a shipment confirmation feed
func (b *FeedBuilder) BuildOrderFulfillmentFeed(fulfillments []feedapp.FulfillmentFeedMessage) ([]byte, error) {
	messages := make([]feedMessage, 0, len(fulfillments))
	for i, f := range fulfillments {
		messages = append(messages, feedMessage{
			MessageID:     i + 1,
			OperationType: operationUpdate,
			Body: fulfillmentMessageBody{
				ExternalOrderID: f.ExternalOrderID,
				FulfillmentDate: f.FulfilledAt.UTC().Format("2006-01-02T15:04:05Z"),
				CarrierCode:     f.CarrierCode,
				ShippingMethod:  f.ShippingMethod,
				TrackingNumber:  f.TrackingNumber,
			},
		})
	}
	return b.marshalEnvelope("OrderFulfillment", messages)
}

func (b *FeedBuilder) marshalEnvelope(messageType string, messages []feedMessage) ([]byte, error) {
	env := feedEnvelope{
		Header: feedHeader{
			DocumentVersion:    feedDocumentVersion,
			MerchantIdentifier: b.merchantID,
		},
		MessageType: messageType,
		Messages:    messages,
	}
	body, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s feed: %w", messageType, err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Ensure FeedBuilder implements the application port
var _ feedapp.FeedBuilder = (*FeedBuilder)(nil)
