package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/money"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// ValidatePaymentAmount rejects a payment that is not positive or exceeds
// the document's outstanding balance. The returned error carries the exact
// message shown to the user.
func ValidatePaymentAmount(amount, balanceDue decimal.Decimal) error {
	if !amount.IsPositive() {
		return httpx.Invalid("Payment amount must be greater than 0")
	}
	if amount.GreaterThan(balanceDue) {
		return httpx.Invalid(fmt.Sprintf("Payment amount cannot exceed balance due of %s", money.Format(balanceDue)))
	}
	return nil
}

// ValidateRefundAmount rejects a refund that is not positive or exceeds the
// refundable ceiling (amount paid minus refunds already processed).
func ValidateRefundAmount(amount, amountPaid, amountRefunded decimal.Decimal) error {
	refundable := money.ClampNonNegative(amountPaid.Sub(amountRefunded))
	if !amount.IsPositive() {
		return httpx.Invalid("Refund amount must be greater than 0")
	}
	if amount.GreaterThan(refundable) {
		return httpx.Invalid(fmt.Sprintf("Refund amount cannot exceed refundable balance of %s", money.Format(refundable)))
	}
	return nil
}

// ValidateAllocations rejects a payment whose bill allocations are not
// positive or sum to more than the payment amount.
func ValidateAllocations(paymentAmount decimal.Decimal, allocations []decimal.Decimal) error {
	total := decimal.Zero
	for _, a := range allocations {
		if !a.IsPositive() {
			return httpx.Invalid("Allocation amount must be greater than 0")
		}
		total = total.Add(a)
	}
	if total.GreaterThan(paymentAmount) {
		return httpx.Invalid("Total allocation cannot exceed the payment amount")
	}
	return nil
}
