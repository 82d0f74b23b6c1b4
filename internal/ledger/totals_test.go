package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLineFlatDiscount(t *testing.T) {
	res := ComputeLine(LineInput{
		Quantity:      dec("2"),
		Rate:          dec("500"),
		DiscountType:  DiscountFlat,
		DiscountValue: dec("100"),
		TaxPercent:    dec("18"),
	})
	require.True(t, res.Discount.Equal(dec("100")))
	require.True(t, res.Net.Equal(dec("900")))
	require.True(t, res.Tax.Equal(dec("162")))
	require.True(t, res.Amount.Equal(dec("1062")))
}

func TestComputeLinePercentDiscountBeforeTax(t *testing.T) {
	res := ComputeLine(LineInput{
		Quantity:      dec("10"),
		Rate:          dec("100"),
		DiscountType:  DiscountPercent,
		DiscountValue: dec("10"),
		TaxPercent:    dec("12"),
	})
	require.True(t, res.Discount.Equal(dec("100")))
	require.True(t, res.Net.Equal(dec("900")))
	// Tax applies to the discounted amount, not the gross.
	require.True(t, res.Tax.Equal(dec("108")))
	require.True(t, res.Amount.Equal(dec("1008")))
}

func TestComputeTotalsIntraStateSplitsGSTEvenly(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines: []LineInput{
			{Quantity: dec("1"), Rate: dec("1000"), TaxPercent: dec("18")},
		},
		Scheme: TaxIntraState,
	})
	require.True(t, totals.SubTotal.Equal(dec("1000")))
	require.True(t, totals.CGST.Equal(dec("90")))
	require.True(t, totals.SGST.Equal(dec("90")))
	require.True(t, totals.IGST.IsZero())
	require.True(t, totals.CGST.Add(totals.SGST).Equal(totals.TaxAmount))
	require.True(t, totals.Total.Equal(dec("1180")))
}

func TestComputeTotalsInterStateUsesIGST(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines: []LineInput{
			{Quantity: dec("3"), Rate: dec("200"), TaxPercent: dec("5")},
		},
		Scheme: TaxInterState,
	})
	require.True(t, totals.IGST.Equal(dec("30")))
	require.True(t, totals.CGST.IsZero())
	require.True(t, totals.SGST.IsZero())
	require.True(t, totals.Total.Equal(dec("630")))
}

func TestComputeTotalsNoLines(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Scheme:          TaxFlat,
		ShippingCharges: dec("50"),
		Adjustment:      dec("-10"),
	})
	require.True(t, totals.SubTotal.IsZero())
	require.True(t, totals.TaxAmount.IsZero())
	require.True(t, totals.Total.Equal(dec("40")))
}

func TestComputeTotalsNegativeAdjustment(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines: []LineInput{
			{Quantity: dec("1"), Rate: dec("999.99"), TaxPercent: dec("18")},
		},
		Scheme:     TaxInterState,
		Adjustment: dec("-0.9718"), // round the grand total down
	})
	require.True(t, totals.Total.Equal(dec("1179.0164")))
	// Intermediate values never round; the invariant holds exactly.
	require.True(t, totals.Total.Equal(
		totals.SubTotal.Add(totals.TaxAmount).Add(totals.ShippingCharges).Add(totals.Adjustment)))
}

func TestComputeTotalsOddTaxSplitSumsBack(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines: []LineInput{
			{Quantity: dec("1"), Rate: dec("33.33"), TaxPercent: dec("18")},
		},
		Scheme: TaxIntraState,
	})
	require.True(t, totals.CGST.Add(totals.SGST).Equal(totals.TaxAmount))
}
