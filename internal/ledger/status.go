package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates document statuses across all document types. Quotes use
// the extended approval states; invoices, bills and sales orders use the
// payment lifecycle subset.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusOpen            Status = "OPEN"
	StatusSent            Status = "SENT"
	StatusPartiallyPaid   Status = "PARTIALLY_PAID"
	StatusPaid            Status = "PAID"
	StatusOverdue         Status = "OVERDUE"
	StatusVoid            Status = "VOID"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusCustomerViewed  Status = "CUSTOMER_VIEWED"
	StatusAccepted        Status = "ACCEPTED"
	StatusDeclined        Status = "DECLINED"
	StatusInvoiced        Status = "INVOICED"
	StatusConverted       Status = "CONVERTED"
	StatusConfirmed       Status = "CONFIRMED"
)

// Terminal reports whether no further lifecycle transition is allowed.
func (s Status) Terminal() bool {
	switch s {
	case StatusPaid, StatusVoid, StatusDeclined, StatusConverted:
		return true
	}
	return false
}

// DeriveStatus recomputes the display status of a payable document from its
// stored fields. The result is a pure function of the inputs and is never
// persisted. Precedence: a fully settled document is PAID, a partly settled
// one PARTIALLY_PAID; an explicit VOID or OVERDUE from storage wins over the
// date-computed overdue check; otherwise the stored status passes through
// (defaulting to OPEN).
func DeriveStatus(stored Status, total, balanceDue decimal.Decimal, dueDate time.Time, today time.Time) Status {
	switch {
	case balanceDue.IsZero() && total.IsPositive():
		return StatusPaid
	case balanceDue.IsPositive() && balanceDue.LessThan(total):
		return StatusPartiallyPaid
	case stored == StatusVoid:
		return StatusVoid
	case stored == StatusOverdue:
		return StatusOverdue
	case !dueDate.IsZero() && dueDate.Before(today) && balanceDue.IsPositive():
		return StatusOverdue
	case stored == "":
		return StatusOpen
	}
	return stored
}
