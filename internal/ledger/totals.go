// Package ledger implements the financial arithmetic shared by every
// document type: line and document totals, balance reconciliation, payment
// and refund caps, status derivation and the journal projection. All
// functions are pure and operate on decimals; callers format for display.
package ledger

import "github.com/shopspring/decimal"

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountFlat    DiscountType = "FLAT"
	DiscountPercent DiscountType = "PERCENT"
)

// TaxScheme selects how the document tax total is bucketed. Intra-state
// supplies split GST evenly between CGST and SGST; inter-state supplies
// carry the whole amount as IGST; flat keeps a single unsplit tax amount.
type TaxScheme string

const (
	TaxIntraState TaxScheme = "INTRA_STATE"
	TaxInterState TaxScheme = "INTER_STATE"
	TaxFlat       TaxScheme = "FLAT"
)

var hundred = decimal.NewFromInt(100)

// LineInput carries the raw fields of one line item.
type LineInput struct {
	Quantity      decimal.Decimal
	Rate          decimal.Decimal
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	TaxPercent    decimal.Decimal
}

// LineResult holds the derived amounts of one line item. Amount is the
// tax-inclusive line total; Net is the amount that feeds the document
// subtotal. Discounts always apply before tax.
type LineResult struct {
	Discount decimal.Decimal
	Net      decimal.Decimal
	Tax      decimal.Decimal
	Amount   decimal.Decimal
}

// ComputeLine derives discount, net, tax and total for one line item.
func ComputeLine(in LineInput) LineResult {
	gross := in.Quantity.Mul(in.Rate)
	discount := in.DiscountValue
	if in.DiscountType == DiscountPercent {
		discount = gross.Mul(in.DiscountValue).Div(hundred)
	}
	net := gross.Sub(discount)
	tax := net.Mul(in.TaxPercent).Div(hundred)
	return LineResult{
		Discount: discount,
		Net:      net,
		Tax:      tax,
		Amount:   net.Add(tax),
	}
}

// TotalsInput aggregates the document-level inputs of the totals calculator.
type TotalsInput struct {
	Lines           []LineInput
	Scheme          TaxScheme
	ShippingCharges decimal.Decimal
	Adjustment      decimal.Decimal
}

// Totals holds the derived document amounts. TaxAmount is always the full
// tax total; CGST/SGST/IGST are populated according to the scheme.
type Totals struct {
	SubTotal        decimal.Decimal
	CGST            decimal.Decimal
	SGST            decimal.Decimal
	IGST            decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingCharges decimal.Decimal
	Adjustment      decimal.Decimal
	Total           decimal.Decimal
}

// ComputeTotals derives subtotal, tax buckets and grand total. With zero
// lines the subtotal is zero and the total reduces to shipping charges plus
// adjustment. The adjustment may be negative.
func ComputeTotals(in TotalsInput) Totals {
	var subTotal, tax decimal.Decimal
	for _, line := range in.Lines {
		res := ComputeLine(line)
		subTotal = subTotal.Add(res.Net)
		tax = tax.Add(res.Tax)
	}

	t := Totals{
		SubTotal:        subTotal,
		TaxAmount:       tax,
		ShippingCharges: in.ShippingCharges,
		Adjustment:      in.Adjustment,
	}
	switch in.Scheme {
	case TaxIntraState:
		t.CGST = tax.Div(decimal.NewFromInt(2))
		// Assign the remainder to SGST so the halves always sum back.
		t.SGST = tax.Sub(t.CGST)
	case TaxInterState:
		t.IGST = tax
	}
	t.Total = subTotal.Add(tax).Add(in.ShippingCharges).Add(in.Adjustment)
	return t
}
