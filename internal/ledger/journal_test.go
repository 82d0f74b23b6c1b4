package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBillJournalBalances(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines: []LineInput{
			{Quantity: dec("1"), Rate: dec("1000"), TaxPercent: dec("18")},
		},
		Scheme: TaxInterState,
	})
	rows := BillJournal(totals)

	require.Equal(t, "Purchases", rows[0].Account)
	require.True(t, rows[0].Debit.Equal(dec("1000")))
	require.Equal(t, "Input Tax Credits (IGST)", rows[1].Account)
	require.True(t, rows[1].Debit.Equal(dec("180")))
	require.Equal(t, "Accounts Payable", rows[len(rows)-1].Account)
	require.True(t, rows[len(rows)-1].Credit.Equal(dec("1180")))
	require.True(t, Balanced(rows))
}

func TestBillJournalOmitsZeroTaxRow(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines:  []LineInput{{Quantity: dec("1"), Rate: dec("500")}},
		Scheme: TaxFlat,
	})
	rows := BillJournal(totals)
	for _, row := range rows {
		require.NotContains(t, row.Account, "Input Tax")
	}
	require.True(t, Balanced(rows))
}

func TestBillJournalBalancesWithShippingAndNegativeAdjustment(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines: []LineInput{
			{Quantity: dec("2"), Rate: dec("250"), TaxPercent: dec("12")},
		},
		Scheme:          TaxIntraState,
		ShippingCharges: dec("75"),
		Adjustment:      dec("-25"),
	})
	rows := BillJournal(totals)
	require.True(t, Balanced(rows))
}

func TestInvoiceJournalBalances(t *testing.T) {
	totals := ComputeTotals(TotalsInput{
		Lines: []LineInput{
			{Quantity: dec("5"), Rate: dec("120"), TaxPercent: dec("18")},
		},
		Scheme:          TaxIntraState,
		ShippingCharges: dec("40"),
		Adjustment:      dec("10"),
	})
	rows := InvoiceJournal(totals)
	require.Equal(t, "Accounts Receivable", rows[0].Account)
	require.True(t, rows[0].Debit.Equal(totals.Total))
	require.True(t, Balanced(rows))
}
