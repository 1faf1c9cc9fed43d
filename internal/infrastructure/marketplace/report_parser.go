package marketplace

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// Parse errors
var (
	ErrMalformedPayload = errors.New("marketplace: malformed report payload")
	ErrNotOrderReport   = errors.New("marketplace: payload is not an order report envelope")
)

// reportEnvelope is the wire shape of an inbound report document
type reportEnvelope struct {
	XMLName     xml.Name        `xml:"Envelope"`
	MessageType string          `xml:"MessageType"`
	Messages    []reportMessage `xml:"Message"`
}

type reportMessage struct {
	MessageID   int          `xml:"MessageID"`
	OrderReport *orderReport `xml:"OrderReport"`
}

type orderReport struct {
	OrderID          string           `xml:"OrderID"`
	OrderDate        string           `xml:"OrderDate"`
	FulfillmentData  fulfillmentData  `xml:"FulfillmentData"`
	BillingData      billingData      `xml:"BillingData"`
	Items            []reportItem     `xml:"Item"`
}

type billingData struct {
	BuyerName  string `xml:"BuyerName"`
	BuyerEmail string `xml:"BuyerEmailAddress"`
	BuyerPhone string `xml:"BuyerPhoneNumber"`
}

type fulfillmentData struct {
	FulfillmentMethod       string        `xml:"FulfillmentMethod"`
	FulfillmentServiceLevel string        `xml:"FulfillmentServiceLevel"`
	Address                 reportAddress `xml:"Address"`
}

type reportAddress struct {
	Name          string `xml:"Name"`
	AddressLine1  string `xml:"AddressFieldOne"`
	AddressLine2  string `xml:"AddressFieldTwo"`
	City          string `xml:"City"`
	StateOrRegion string `xml:"StateOrRegion"`
	CountryCode   string `xml:"CountryCode"`
	PostalCode    string `xml:"PostalCode"`
	PhoneNumber   string `xml:"PhoneNumber"`
}

type reportItem struct {
	ItemCode     string            `xml:"ItemCode"`
	SKU          string            `xml:"SKU"`
	Title        string            `xml:"Title"`
	Quantity     string            `xml:"Quantity"`
	ItemPrice    []reportComponent `xml:"ItemPrice>Component"`
	ItemTaxes    []reportTax       `xml:"ItemTaxData>Tax"`
	Promotions   []reportPromotion `xml:"Promotion"`
	ItemFees     []reportFee       `xml:"ItemFees>Fee"`
}

type reportComponent struct {
	Type   string       `xml:"Type"`
	Amount reportAmount `xml:"Amount"`
}

type reportAmount struct {
	Currency string `xml:"currency,attr"`
	Value    string `xml:",chardata"`
}

type reportTax struct {
	TaxedComponent  string       `xml:"TaxedComponent"`
	Amount          reportAmount `xml:"Amount"`
	JurisdLevel     string       `xml:"Jurisdiction>Level"`
	JurisdName      string       `xml:"Jurisdiction>Name"`
	JurisdStateCode string       `xml:"Jurisdiction>StateCode"`
}

type reportPromotion struct {
	PromotionID string       `xml:"PromotionID"`
	ClaimCode   string       `xml:"PromotionClaimCode"`
	Component   string       `xml:"Component"`
	Amount      reportAmount `xml:"Amount"`
}

type reportFee struct {
	Type   string       `xml:"Type"`
	Amount reportAmount `xml:"Amount"`
}

// ReportParser decodes envelope XML order reports into extracted orders
type ReportParser struct{}

// NewReportParser creates a new ReportParser
func NewReportParser() *ReportParser {
	return &ReportParser{}
}

// Validate checks that the payload is well-formed XML with an Envelope
// root, without fully decoding it
func (p *ReportParser) Validate(payload []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	sawRoot := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if start, ok := tok.(xml.StartElement); ok && !sawRoot {
			if start.Name.Local != "Envelope" {
				return fmt.Errorf("%w: unexpected root element %q", ErrNotOrderReport, start.Name.Local)
			}
			sawRoot = true
		}
	}
	if !sawRoot {
		return fmt.Errorf("%w: empty document", ErrMalformedPayload)
	}
	return nil
}

// ParseOrderReport decodes a report payload into extracted orders.
// Messages not carrying an OrderReport element are ignored.
func (p *ReportParser) ParseOrderReport(payload []byte) ([]feed.ExtractedOrder, error) {
	var env reportEnvelope
	if err := xml.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	orders := make([]feed.ExtractedOrder, 0, len(env.Messages))
	for _, msg := range env.Messages {
		if msg.OrderReport == nil {
			continue
		}
		order, err := p.convertOrder(msg.OrderReport)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", msg.OrderReport.OrderID, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (p *ReportParser) convertOrder(report *orderReport) (feed.ExtractedOrder, error) {
	orderDate, err := parseReportTime(report.OrderDate)
	if err != nil {
		return feed.ExtractedOrder{}, fmt.Errorf("parse order date %q: %w", report.OrderDate, err)
	}

	addr := report.FulfillmentData.Address
	order := feed.ExtractedOrder{
		ExternalOrderID:  report.OrderID,
		OrderDate:        orderDate,
		BuyerName:        report.BillingData.BuyerName,
		BuyerEmail:       report.BillingData.BuyerEmail,
		BuyerPhone:       report.BillingData.BuyerPhone,
		ShipToName:       addr.Name,
		ShipAddress1:     addr.AddressLine1,
		ShipAddress2:     addr.AddressLine2,
		ShipCity:         addr.City,
		ShipState:        addr.StateOrRegion,
		ShipCountry:      addr.CountryCode,
		ShipPostalCode:   addr.PostalCode,
		ShipPhone:        addr.PhoneNumber,
		ShipmentMethod:   report.FulfillmentData.FulfillmentServiceLevel,
		FulfillmentClass: report.FulfillmentData.FulfillmentMethod,
		Items:            make([]feed.ExtractedItem, 0, len(report.Items)),
	}

	for i, item := range report.Items {
		extracted, currency, err := p.convertItem(item)
		if err != nil {
			return feed.ExtractedOrder{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		if order.CurrencyCode == "" && currency != "" {
			order.CurrencyCode = currency
		}
		order.Items = append(order.Items, extracted)
	}
	return order, nil
}

func (p *ReportParser) convertItem(item reportItem) (feed.ExtractedItem, string, error) {
	quantity, err := decimal.NewFromString(item.Quantity)
	if err != nil {
		return feed.ExtractedItem{}, "", fmt.Errorf("parse quantity %q: %w", item.Quantity, err)
	}

	extracted := feed.ExtractedItem{
		ExternalItemID: item.ItemCode,
		ProductCode:    item.SKU,
		Description:    item.Title,
		Quantity:       quantity,
	}

	currency := ""
	for _, c := range item.ItemPrice {
		amount, err := parseReportAmount(c.Amount)
		if err != nil {
			return feed.ExtractedItem{}, "", fmt.Errorf("price component %s: %w", c.Type, err)
		}
		if currency == "" {
			currency = c.Amount.Currency
		}
		extracted.Components = append(extracted.Components, feed.StagedPriceComponent{
			Kind:   c.Type,
			Amount: amount,
		})
	}
	for _, t := range item.ItemTaxes {
		amount, err := parseReportAmount(t.Amount)
		if err != nil {
			return feed.ExtractedItem{}, "", fmt.Errorf("tax on %s: %w", t.TaxedComponent, err)
		}
		extracted.Taxes = append(extracted.Taxes, feed.StagedTax{
			Kind:            t.TaxedComponent,
			Amount:          amount,
			JurisdLevel:     t.JurisdLevel,
			JurisdName:      t.JurisdName,
			JurisdStateCode: t.JurisdStateCode,
		})
	}
	for _, promo := range item.Promotions {
		amount, err := parseReportAmount(promo.Amount)
		if err != nil {
			return feed.ExtractedItem{}, "", fmt.Errorf("promotion %s: %w", promo.PromotionID, err)
		}
		extracted.Promotions = append(extracted.Promotions, feed.StagedPromo{
			PromotionID: promo.PromotionID,
			ClaimCode:   promo.ClaimCode,
			Kind:        promo.Component,
			Amount:      amount,
		})
	}
	for _, fee := range item.ItemFees {
		amount, err := parseReportAmount(fee.Amount)
		if err != nil {
			return feed.ExtractedItem{}, "", fmt.Errorf("fee %s: %w", fee.Type, err)
		}
		extracted.Fees = append(extracted.Fees, feed.StagedFee{
			Kind:   fee.Type,
			Amount: amount,
		})
	}
	return extracted, currency, nil
}

func parseReportAmount(a reportAmount) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(a.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", a.Value, err)
	}
	return value, nil
}

// parseReportTime accepts the timestamp layouts marketplaces put in
// report documents
func parseReportTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Ensure ReportParser implements the domain port
var _ feed.ReportParser = (*ReportParser)(nil)
