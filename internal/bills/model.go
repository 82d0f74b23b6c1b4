package bills

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// BillItem is one line of a vendor bill.
type BillItem struct {
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

// PaymentRecord is one payment applied against a bill, either recorded
// directly or allocated from a payment-made document.
type PaymentRecord struct {
	PaymentID uuid.UUID       `json:"paymentId"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode,omitempty"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference,omitempty"`
}

// CreditApplied is one vendor credit applied against a bill. Applied
// credits reduce the balance due without touching the amount paid.
type CreditApplied struct {
	ID               uuid.UUID       `json:"id"`
	CreditNoteNumber string          `json:"creditNoteNumber,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
}

// Bill is a vendor bill (accounts payable document).
type Bill struct {
	ID              uuid.UUID            `json:"id"`
	BillNumber      string               `json:"billNumber"`
	OrderNumber     string               `json:"orderNumber,omitempty"`
	Date            time.Time            `json:"date"`
	DueDate         time.Time            `json:"dueDate"`
	VendorID        uuid.UUID            `json:"vendorId"`
	VendorName      string               `json:"vendorName"`
	VendorAddress   *shared.Address      `json:"vendorAddress,omitempty"`
	SourceOfSupply  string               `json:"sourceOfSupply,omitempty"`
	PaymentTerms    string               `json:"paymentTerms,omitempty"`
	TaxScheme       ledger.TaxScheme     `json:"taxScheme"`
	Items           []BillItem           `json:"items"`
	SubTotal        decimal.Decimal      `json:"subTotal"`
	ShippingCharges decimal.Decimal      `json:"shippingCharges"`
	CGST            decimal.Decimal      `json:"cgst"`
	SGST            decimal.Decimal      `json:"sgst"`
	IGST            decimal.Decimal      `json:"igst"`
	TaxAmount       decimal.Decimal      `json:"taxAmount"`
	Adjustment      decimal.Decimal      `json:"adjustment"`
	Total           decimal.Decimal      `json:"total"`
	AmountPaid      decimal.Decimal      `json:"amountPaid"`
	BalanceDue      decimal.Decimal      `json:"balanceDue"`
	Status          ledger.Status        `json:"status"`
	CreditsApplied  []CreditApplied      `json:"creditsApplied"`
	Payments        []PaymentRecord      `json:"paymentsRecorded"`
	JournalEntries  []ledger.JournalRow  `json:"journalEntries,omitempty"`
	ActivityLogs    []shared.ActivityLog `json:"activityLogs"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// CreditTotal sums the applied vendor credits.
func (b *Bill) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.CreditsApplied {
		total = total.Add(c.Amount)
	}
	return total
}

// Totals reassembles the ledger totals view of the stored amounts.
func (b *Bill) Totals() ledger.Totals {
	return ledger.Totals{
		SubTotal:        b.SubTotal,
		CGST:            b.CGST,
		SGST:            b.SGST,
		IGST:            b.IGST,
		TaxAmount:       b.TaxAmount,
		ShippingCharges: b.ShippingCharges,
		Adjustment:      b.Adjustment,
		Total:           b.Total,
	}
}
