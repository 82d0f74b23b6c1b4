package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// InvoiceItem is one line of a sales invoice.
type InvoiceItem struct {
	Details       string              `json:"details"`
	Account       string              `json:"account,omitempty"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Rate          decimal.Decimal     `json:"rate"`
	DiscountType  ledger.DiscountType `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	TaxPercent    decimal.Decimal     `json:"taxPercent"`
	TaxAmount     decimal.Decimal     `json:"taxAmount"`
	Amount        decimal.Decimal     `json:"amount"`
}

// PaymentRecord is one payment applied against an invoice.
type PaymentRecord struct {
	PaymentID uuid.UUID       `json:"paymentId"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode,omitempty"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference,omitempty"`
}

// Refund is one refund processed against an invoice's paid amount.
type Refund struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Mode   string          `json:"mode"`
	Reason string          `json:"reason,omitempty"`
	Date   time.Time       `json:"date"`
}

// Invoice is a sales invoice. SubTotal, the tax buckets, Total, AmountPaid
// and BalanceDue are stored amounts owned by this service; the status
// returned on the wire is re-derived from them on every read.
type Invoice struct {
	ID              uuid.UUID            `json:"id"`
	InvoiceNumber   string               `json:"invoiceNumber"`
	ReferenceNumber string               `json:"referenceNumber,omitempty"`
	Date            time.Time            `json:"date"`
	DueDate         time.Time            `json:"dueDate"`
	CustomerID      uuid.UUID            `json:"customerId"`
	CustomerName    string               `json:"customerName"`
	BillingAddress  *shared.Address      `json:"billingAddress,omitempty"`
	ShippingAddress *shared.Address      `json:"shippingAddress,omitempty"`
	PlaceOfSupply   string               `json:"placeOfSupply,omitempty"`
	Salesperson     string               `json:"salesperson,omitempty"`
	PaymentTerms    string               `json:"paymentTerms,omitempty"`
	TaxScheme       ledger.TaxScheme     `json:"taxScheme"`
	Items           []InvoiceItem        `json:"items"`
	SubTotal        decimal.Decimal      `json:"subTotal"`
	ShippingCharges decimal.Decimal      `json:"shippingCharges"`
	CGST            decimal.Decimal      `json:"cgst"`
	SGST            decimal.Decimal      `json:"sgst"`
	IGST            decimal.Decimal      `json:"igst"`
	TaxAmount       decimal.Decimal      `json:"taxAmount"`
	Adjustment      decimal.Decimal      `json:"adjustment"`
	Total           decimal.Decimal      `json:"total"`
	AmountPaid      decimal.Decimal      `json:"amountPaid"`
	AmountRefunded  decimal.Decimal      `json:"amountRefunded"`
	BalanceDue      decimal.Decimal      `json:"balanceDue"`
	Status          ledger.Status        `json:"status"`
	SourceType      string               `json:"sourceType,omitempty"`
	SourceNumber    string               `json:"sourceNumber,omitempty"`
	Payments        []PaymentRecord      `json:"payments"`
	Refunds         []Refund             `json:"refunds"`
	ActivityLogs    []shared.ActivityLog `json:"activityLogs"`
	CustomerNotes   string               `json:"customerNotes,omitempty"`
	Terms           string               `json:"termsAndConditions,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// Totals reassembles the ledger totals view of the stored amounts.
func (inv *Invoice) Totals() ledger.Totals {
	return ledger.Totals{
		SubTotal:        inv.SubTotal,
		CGST:            inv.CGST,
		SGST:            inv.SGST,
		IGST:            inv.IGST,
		TaxAmount:       inv.TaxAmount,
		ShippingCharges: inv.ShippingCharges,
		Adjustment:      inv.Adjustment,
		Total:           inv.Total,
	}
}
