package ledger

import "github.com/shopspring/decimal"

// JournalRow is one display row of the double-entry journal table.
type JournalRow struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// BillJournal synthesizes an illustrative journal for a bill when the stored
// record carries none. It is a presentation convenience, not authoritative
// accounting: debits purchases, input tax and shipping, credits accounts
// payable for the grand total. The rows always balance because
// total = subtotal + tax + shipping + adjustment.
func BillJournal(t Totals) []JournalRow {
	rows := []JournalRow{
		{Account: "Purchases", Debit: t.SubTotal},
	}
	if t.TaxAmount.IsPositive() {
		rows = append(rows, JournalRow{Account: "Input Tax Credits (IGST)", Debit: t.TaxAmount})
	}
	if t.ShippingCharges.IsPositive() {
		rows = append(rows, JournalRow{Account: "Shipping Charges", Debit: t.ShippingCharges})
	}
	if t.Adjustment.IsPositive() {
		rows = append(rows, JournalRow{Account: "Adjustments", Debit: t.Adjustment})
	} else if t.Adjustment.IsNegative() {
		rows = append(rows, JournalRow{Account: "Adjustments", Credit: t.Adjustment.Neg()})
	}
	rows = append(rows, JournalRow{Account: "Accounts Payable", Credit: t.Total})
	return rows
}

// InvoiceJournal synthesizes the mirror projection for a sales invoice:
// debits accounts receivable, credits sales, output tax and shipping.
func InvoiceJournal(t Totals) []JournalRow {
	rows := []JournalRow{
		{Account: "Accounts Receivable", Debit: t.Total},
		{Account: "Sales", Credit: t.SubTotal},
	}
	if t.TaxAmount.IsPositive() {
		rows = append(rows, JournalRow{Account: "Output Tax (GST)", Credit: t.TaxAmount})
	}
	if t.ShippingCharges.IsPositive() {
		rows = append(rows, JournalRow{Account: "Shipping Charges", Credit: t.ShippingCharges})
	}
	if t.Adjustment.IsPositive() {
		rows = append(rows, JournalRow{Account: "Adjustments", Credit: t.Adjustment})
	} else if t.Adjustment.IsNegative() {
		rows = append(rows, JournalRow{Account: "Adjustments", Debit: t.Adjustment.Neg()})
	}
	return rows
}

// Balanced reports whether a journal table's debit and credit columns sum to
// the same amount.
func Balanced(rows []JournalRow) bool {
	var debit, credit decimal.Decimal
	for _, row := range rows {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}
	return debit.Equal(credit)
}
