package document

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func quoteItems() []LineItem {
	return []LineItem{
		{Description: "NVR 8ch", Quantity: 2, UnitPrice: dec("5000"), UnitCost: dec("3800")},
		{Description: "Dome camera", Quantity: 3, UnitPrice: dec("2750"), UnitCost: dec("1900")},
	}
}

func TestComputeTotals_TaxDisabled(t *testing.T) {
	totals, err := ComputeTotals(quoteItems(), CalcFlags{})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("18250")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TotalTax.IsZero())
	assert.True(t, totals.GrandTotal.Equal(dec("18250")))
	assert.True(t, totals.Profit.Equal(dec("4950")), "profit = %s", totals.Profit)
}

func TestComputeTotals_DocumentTaxDefaultRate(t *testing.T) {
	totals, err := ComputeTotals(quoteItems(), CalcFlags{DocumentTax: true})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("18250")))
	assert.True(t, totals.TotalTax.Equal(dec("2920")), "tax = %s", totals.TotalTax)
	assert.True(t, totals.GrandTotal.Equal(dec("21170")), "grand = %s", totals.GrandTotal)
}

func TestComputeTotals_MixedUnitCounts(t *testing.T) {
	items := []LineItem{
		{Description: "DVR 16ch", Quantity: 1, UnitPrice: dec("15000")},
		{Description: "Installation", Quantity: 1, UnitPrice: dec("2500")},
		{Description: "Coaxial run", Quantity: 5, UnitPrice: dec("150")},
	}

	totals, err := ComputeTotals(items, CalcFlags{})
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("18250")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.GrandTotal.Equal(dec("18250")))

	taxed, err := ComputeTotals(items, CalcFlags{DocumentTax: true})
	require.NoError(t, err)
	assert.True(t, taxed.TotalTax.Equal(dec("2920")), "tax = %s", taxed.TotalTax)
	assert.True(t, taxed.GrandTotal.Equal(dec("21170")), "grand = %s", taxed.GrandTotal)
}

func TestComputeTotals_DocumentTaxOverridesItemRates(t *testing.T) {
	items := quoteItems()
	items[0].TaxPercent = dec("8")
	items[1].TaxPercent = dec("11")

	totals, err := ComputeTotals(items, CalcFlags{DocumentTax: true})
	require.NoError(t, err)

	// The document-level rate wins; per-item rates are ignored.
	assert.True(t, totals.TotalTax.Equal(dec("2920")), "tax = %s", totals.TotalTax)
}

func TestComputeTotals_PerItemTax(t *testing.T) {
	items := []LineItem{
		{Description: "Part", Quantity: 1, UnitPrice: dec("100"), TaxPercent: dec("16")},
		{Description: "Labor", Quantity: 1, UnitPrice: dec("200")},
	}

	totals, err := ComputeTotals(items, CalcFlags{})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("300")))
	assert.True(t, totals.TotalTax.Equal(dec("16")), "tax = %s", totals.TotalTax)
	assert.True(t, totals.GrandTotal.Equal(dec("316")))
}

func TestComputeTotals_Discount(t *testing.T) {
	items := []LineItem{
		{Description: "Switch 24p", Quantity: 1, UnitPrice: dec("4000"), DiscountPercent: dec("10")},
	}

	totals, err := ComputeTotals(items, CalcFlags{})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("3600")))
	assert.True(t, totals.TotalDiscount.Equal(dec("400")))
}

func TestComputeTotals_FractionalQuantityTruncated(t *testing.T) {
	items := []LineItem{
		{Description: "Cable", Quantity: 2.9, UnitPrice: dec("100")},
	}

	totals, err := ComputeTotals(items, CalcFlags{})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("200")), "subtotal = %s", totals.Subtotal)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals, err := ComputeTotals(nil, CalcFlags{DocumentTax: true})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TotalTax.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.True(t, totals.Profit.IsZero())
	assert.True(t, totals.MarginPercent.IsZero(), "margin must be 0, not NaN, on empty documents")
}

func TestComputeTotals_ZeroPriceLines(t *testing.T) {
	items := []LineItem{
		{Description: "Courtesy check", Quantity: 1, UnitPrice: dec("0"), UnitCost: dec("50")},
	}

	totals, err := ComputeTotals(items, CalcFlags{})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Profit.Equal(dec("-50")))
	assert.True(t, totals.MarginPercent.IsZero(), "zero subtotal must not divide")
}

func TestComputeTotals_RoundsOnlyAtTheEnd(t *testing.T) {
	// Three lines of 33.335 would each round to 33.34 (100.02 total)
	// if rounding happened per line. The calculator keeps precision
	// until the final totals.
	items := []LineItem{
		{Description: "a", Quantity: 1, UnitPrice: dec("33.335")},
		{Description: "b", Quantity: 1, UnitPrice: dec("33.335")},
		{Description: "c", Quantity: 1, UnitPrice: dec("33.335")},
	}

	totals, err := ComputeTotals(items, CalcFlags{})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("100.01")), "subtotal = %s", totals.Subtotal)
}

func TestComputeTotals_HalfAwayFromZero(t *testing.T) {
	items := []LineItem{
		{Description: "a", Quantity: 1, UnitPrice: dec("10.005")},
	}

	totals, err := ComputeTotals(items, CalcFlags{})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("10.01")), "subtotal = %s", totals.Subtotal)
}

func TestComputeTotals_InvalidItems(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
	}{
		{"negative quantity", LineItem{Quantity: -1, UnitPrice: dec("10")}},
		{"negative price", LineItem{Quantity: 1, UnitPrice: dec("-10")}},
		{"negative cost", LineItem{Quantity: 1, UnitPrice: dec("10"), UnitCost: dec("-1")}},
		{"discount above 100", LineItem{Quantity: 1, UnitPrice: dec("10"), DiscountPercent: dec("101")}},
		{"negative tax", LineItem{Quantity: 1, UnitPrice: dec("10"), TaxPercent: dec("-5")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeTotals([]LineItem{tc.item}, CalcFlags{})
			assert.ErrorIs(t, err, ErrInvalidLineItem)
		})
	}
}
