package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{"", "One", "Two", "Three", "Four", "Five", "Six",
	"Seven", "Eight", "Nine", "Ten", "Eleven", "Twelve", "Thirteen",
	"Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}

var tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty",
	"Sixty", "Seventy", "Eighty", "Ninety"}

func wordsBelowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "Hundred")
		n %= 100
	}
	if n >= 20 {
		parts = append(parts, tensWords[n/10])
		n %= 10
	}
	if n > 0 {
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}

// InWords spells out the whole-rupee part of an amount in the Indian
// numbering system, e.g. "Indian Rupee One Lakh Twenty Three Thousand Only".
// Paise are not spelled out.
func InWords(d decimal.Decimal) string {
	n := d.IntPart()
	if n == 0 {
		return "Zero Only"
	}

	parts := []string{"Indian Rupee"}
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, wordsBelowThousand(crore), "Crore")
	}
	n %= 10000000
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, wordsBelowThousand(lakh), "Lakh")
	}
	n %= 100000
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, wordsBelowThousand(thousand), "Thousand")
	}
	n %= 1000
	if n > 0 {
		parts = append(parts, wordsBelowThousand(n))
	}
	parts = append(parts, "Only")
	return strings.Join(parts, " ")
}
