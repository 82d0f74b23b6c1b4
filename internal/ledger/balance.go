package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/money"
)

// BalanceDue computes the outstanding amount on a document:
// total minus payments minus applied credits, floored at zero.
func BalanceDue(total, amountPaid, creditsApplied decimal.Decimal) decimal.Decimal {
	return money.ClampNonNegative(total.Sub(amountPaid).Sub(creditsApplied))
}

// UnusedAmount computes the portion of a recorded payment not yet allocated
// to any bill, floored at zero.
func UnusedAmount(paymentAmount decimal.Decimal, allocations []decimal.Decimal) decimal.Decimal {
	used := decimal.Zero
	for _, a := range allocations {
		used = used.Add(a)
	}
	return money.ClampNonNegative(paymentAmount.Sub(used))
}
