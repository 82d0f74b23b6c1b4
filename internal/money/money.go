// Package money holds the fixed-point currency conventions used across every
// document type. Amounts are decimals end to end; nothing rounds until a
// value is formatted for display.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func init() {
	// The API contract expects bare JSON numbers for all currency fields.
	decimal.MarshalJSONWithoutQuotes = true
}

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders an amount with the rupee symbol, two fraction digits and
// Indian digit grouping, e.g. ₹12,34,567.89.
func Format(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return "₹" + printer.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Display renders an amount with two fraction digits and no symbol or
// grouping, matching the journal table presentation.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ClampNonNegative floors an amount at zero. Balance due and unused payment
// amounts never go negative on the wire.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
