package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("WS10000", "058-1234567-1234567", ChannelMarketplace, uuid.New(), valueobject.USD)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates order in CREATED status", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Equal(t, StatusCreated, o.Status)
		assert.True(t, o.IsOpen())
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewOrder("", "ext-1", ChannelMarketplace, uuid.New(), valueobject.USD)
		assert.Error(t, err)
	})
}

func TestGrandTotal(t *testing.T) {
	t.Run("sums items and signed adjustments", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddItem(NewItem(uuid.New(), "ext-item-1", "Widget", dec("1"), dec("10.00")))
		o.AddItem(NewItem(uuid.New(), "ext-item-2", "Gadget", dec("1"), dec("10.00")))
		o.AddAdjustment(NewAdjustment(AdjustmentPromotion, dec("-2.00"), "Spring promo").
			WithPromotion("PROMO-77", "SPRING"))
		o.AddAdjustment(NewAdjustment(AdjustmentShipping, dec("1.50"), "Standard shipping"))

		assert.True(t, o.GrandTotal().Amount().Equal(dec("19.50")),
			"got %s", o.GrandTotal().String())
	})

	t.Run("rounds half up to cents", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddItem(NewItem(uuid.New(), "ext-item-1", "Widget", dec("3"), dec("3.335")))

		assert.Equal(t, "10.01 USD", o.GrandTotal().String())
	})

	t.Run("empty order totals zero", func(t *testing.T) {
		o := newTestOrder(t)
		assert.True(t, o.GrandTotal().IsZero())
	})

	t.Run("line subtotal survives unit price rounding", func(t *testing.T) {
		// three units priced 10.00 in total: the rounded unit price is
		// 3.33 but the order must still total 10.00
		o := newTestOrder(t)
		o.AddItem(NewItem(uuid.New(), "ext-item-1", "Widget", dec("3"), dec("3.33")).
			WithSubtotal(dec("10.00")))

		assert.Equal(t, "10.00 USD", o.GrandTotal().String())
		assert.Equal(t, "3.33", o.Items[0].UnitPrice.String())
		assert.True(t, o.Items[0].LineTotal().Equal(dec("10.00")))
	})
}

func TestItemSequencing(t *testing.T) {
	o := newTestOrder(t)
	first := o.AddItem(NewItem(uuid.New(), "a", "A", dec("1"), dec("1.00")))
	second := o.AddItem(NewItem(uuid.New(), "b", "B", dec("1"), dec("1.00")))

	assert.Equal(t, 1, first.SequenceID)
	assert.Equal(t, 2, second.SequenceID)
	assert.Equal(t, o.ID, first.OrderID)
}

func TestStatusTransitions(t *testing.T) {
	t.Run("approve from CREATED", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddItem(NewItem(uuid.New(), "a", "A", dec("1"), dec("1.00")))
		require.NoError(t, o.Approve())
		assert.Equal(t, StatusApproved, o.Status)
	})

	t.Run("approve rejects empty order", func(t *testing.T) {
		o := newTestOrder(t)
		assert.ErrorIs(t, o.Approve(), ErrEmptyOrder)
	})

	t.Run("approve twice fails", func(t *testing.T) {
		o := newTestOrder(t)
		o.AddItem(NewItem(uuid.New(), "a", "A", dec("1"), dec("1.00")))
		require.NoError(t, o.Approve())
		assert.ErrorIs(t, o.Approve(), ErrInvalidStatus)
	})

	t.Run("cancel closes the order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())
		assert.False(t, o.IsOpen())
		assert.ErrorIs(t, o.Cancel(), ErrInvalidStatus)
	})
}

func TestItemAdjustment(t *testing.T) {
	o := newTestOrder(t)
	item := o.AddItem(NewItem(uuid.New(), "a", "A", dec("2"), dec("5.00")))
	o.AddAdjustment(NewItemAdjustment(AdjustmentSalesTax, dec("0.83"), "CA state tax", item.SequenceID).
		WithTaxAuthority(uuid.New()))

	require.Len(t, o.Adjustments, 1)
	adj := o.Adjustments[0]
	require.NotNil(t, adj.OrderItemSeqID)
	assert.Equal(t, 1, *adj.OrderItemSeqID)
	assert.NotNil(t, adj.TaxAuthorityID)
	assert.Equal(t, "10.83 USD", o.GrandTotal().String())
}
