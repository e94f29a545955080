package controllers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckoutLineItems(t *testing.T) {
	items := []checkoutItem{
		{Name: "Teak Chair", Price: 120, Quantity: 2},
		{Name: "Spice Rack", Price: 19.99, Quantity: 1},
	}

	lineItems := checkoutLineItems(items)
	require.Len(t, lineItems, 2)

	first := lineItems[0]
	require.Equal(t, "Teak Chair", *first.PriceData.ProductData.Name)
	require.Equal(t, "usd", *first.PriceData.Currency)
	// Prices are converted to minor currency units.
	require.Equal(t, int64(12000), *first.PriceData.UnitAmount)
	require.Equal(t, int64(2), *first.Quantity)

	require.Equal(t, int64(1999), *lineItems[1].PriceData.UnitAmount)
}

func TestCheckoutLineItemsEmpty(t *testing.T) {
	require.Empty(t, checkoutLineItems(nil))
}
