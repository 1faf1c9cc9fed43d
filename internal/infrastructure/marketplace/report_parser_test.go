package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOrderReport = `<?xml version="1.0" encoding="UTF-8"?>
<Envelope>
  <Header>
    <DocumentVersion>1.01</DocumentVersion>
    <MerchantIdentifier>SELLER123</MerchantIdentifier>
  </Header>
  <MessageType>OrderReport</MessageType>
  <Message>
    <MessageID>1</MessageID>
    <OrderReport>
      <OrderID>102-5843221-3954555</OrderID>
      <OrderDate>2026-08-14T09:30:00Z</OrderDate>
      <BillingData>
        <BuyerName>Jordan Reyes</BuyerName>
        <BuyerEmailAddress>jordan.reyes@example.com</BuyerEmailAddress>
        <BuyerPhoneNumber>(206) 555-0147</BuyerPhoneNumber>
      </BillingData>
      <FulfillmentData>
        <FulfillmentMethod>Ship</FulfillmentMethod>
        <FulfillmentServiceLevel>Standard</FulfillmentServiceLevel>
        <Address>
          <Name>Jordan Reyes</Name>
          <AddressFieldOne>400 Broad St</AddressFieldOne>
          <AddressFieldTwo>Apt 12</AddressFieldTwo>
          <City>Seattle</City>
          <StateOrRegion>WA</StateOrRegion>
          <CountryCode>US</CountryCode>
          <PostalCode>98109</PostalCode>
          <PhoneNumber>(206) 555-0147</PhoneNumber>
        </Address>
      </FulfillmentData>
      <Item>
        <ItemCode>90211</ItemCode>
        <SKU>WIDGET-01</SKU>
        <Title>Widget, Standard Size</Title>
        <Quantity>2</Quantity>
        <ItemPrice>
          <Component>
            <Type>Principal</Type>
            <Amount currency="USD">39.98</Amount>
          </Component>
          <Component>
            <Type>Shipping</Type>
            <Amount currency="USD">4.99</Amount>
          </Component>
        </ItemPrice>
        <ItemTaxData>
          <Tax>
            <TaxedComponent>Principal</TaxedComponent>
            <Amount currency="USD">3.60</Amount>
            <Jurisdiction>
              <Level>City</Level>
              <Name>SEATTLE</Name>
              <StateCode>WA</StateCode>
            </Jurisdiction>
          </Tax>
        </ItemTaxData>
        <Promotion>
          <PromotionID>SUMMER26</PromotionID>
          <PromotionClaimCode>SUN10</PromotionClaimCode>
          <Component>Principal</Component>
          <Amount currency="USD">-4.00</Amount>
        </Promotion>
        <ItemFees>
          <Fee>
            <Type>Commission</Type>
            <Amount currency="USD">-6.00</Amount>
          </Fee>
        </ItemFees>
      </Item>
    </OrderReport>
  </Message>
</Envelope>`

func TestReportParser_Validate(t *testing.T) {
	parser := NewReportParser()

	t.Run("accepts a well-formed envelope", func(t *testing.T) {
		assert.NoError(t, parser.Validate([]byte(sampleOrderReport)))
	})

	t.Run("rejects truncated XML", func(t *testing.T) {
		err := parser.Validate([]byte("<Envelope><Message>"))
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("rejects a foreign root element", func(t *testing.T) {
		err := parser.Validate([]byte("<TradeReport/>"))
		assert.Error(t, err)
	})

	t.Run("rejects an empty payload", func(t *testing.T) {
		err := parser.Validate([]byte("  "))
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
}

func TestReportParser_ParseOrderReport(t *testing.T) {
	parser := NewReportParser()

	t.Run("extracts orders with items, taxes, promotions and fees", func(t *testing.T) {
		orders, err := parser.ParseOrderReport([]byte(sampleOrderReport))

		require.NoError(t, err)
		require.Len(t, orders, 1)

		order := orders[0]
		assert.Equal(t, "102-5843221-3954555", order.ExternalOrderID)
		assert.Equal(t, 2026, order.OrderDate.Year())
		assert.Equal(t, "Jordan Reyes", order.BuyerName)
		assert.Equal(t, "jordan.reyes@example.com", order.BuyerEmail)
		assert.Equal(t, "Seattle", order.ShipCity)
		assert.Equal(t, "WA", order.ShipState)
		assert.Equal(t, "US", order.ShipCountry)
		assert.Equal(t, "Standard", order.ShipmentMethod)
		assert.Equal(t, "Ship", order.FulfillmentClass)
		assert.Equal(t, "USD", order.CurrencyCode)

		require.Len(t, order.Items, 1)
		item := order.Items[0]
		assert.Equal(t, "90211", item.ExternalItemID)
		assert.Equal(t, "WIDGET-01", item.ProductCode)
		assert.Equal(t, "2", item.Quantity.String())

		require.Len(t, item.Components, 2)
		assert.Equal(t, "Principal", item.Components[0].Kind)
		assert.Equal(t, "39.98", item.Components[0].Amount.String())
		assert.Equal(t, "Shipping", item.Components[1].Kind)

		require.Len(t, item.Taxes, 1)
		assert.Equal(t, "City", item.Taxes[0].JurisdLevel)
		assert.Equal(t, "SEATTLE", item.Taxes[0].JurisdName)
		assert.Equal(t, "WA", item.Taxes[0].JurisdStateCode)

		require.Len(t, item.Promotions, 1)
		assert.Equal(t, "SUMMER26", item.Promotions[0].PromotionID)
		assert.Equal(t, "SUN10", item.Promotions[0].ClaimCode)
		assert.True(t, item.Promotions[0].Amount.IsNegative())

		require.Len(t, item.Fees, 1)
		assert.Equal(t, "Commission", item.Fees[0].Kind)
	})

	t.Run("ignores messages without an order report", func(t *testing.T) {
		payload := `<Envelope><MessageType>OrderReport</MessageType>` +
			`<Message><MessageID>1</MessageID></Message></Envelope>`

		orders, err := parser.ParseOrderReport([]byte(payload))

		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("fails on a non-numeric quantity", func(t *testing.T) {
		payload := `<Envelope><MessageType>OrderReport</MessageType><Message><MessageID>1</MessageID>` +
			`<OrderReport><OrderID>X-1</OrderID><OrderDate>2026-08-14</OrderDate>` +
			`<Item><SKU>A</SKU><Quantity>two</Quantity></Item></OrderReport></Message></Envelope>`

		_, err := parser.ParseOrderReport([]byte(payload))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("fails on an unparseable order date", func(t *testing.T) {
		payload := `<Envelope><MessageType>OrderReport</MessageType><Message><MessageID>1</MessageID>` +
			`<OrderReport><OrderID>X-2</OrderID><OrderDate>last tuesday</OrderDate></OrderReport></Message></Envelope>`

		_, err := parser.ParseOrderReport([]byte(payload))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "order date")
	})
}
