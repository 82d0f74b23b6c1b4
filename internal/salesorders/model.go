package salesorders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// OrderItem is one line of a sales order. Invoiced marks lines already
// carried onto an invoice through conversion.
type OrderItem struct {
	Details       string              `json:"details"`
	Account       string              `json:"account,omitempty"`
	Quantity      decimal.Decimal     `json:"quantity"`
	Rate          decimal.Decimal     `json:"rate"`
	DiscountType  ledger.DiscountType `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	TaxPercent    decimal.Decimal     `json:"taxPercent"`
	TaxAmount     decimal.Decimal     `json:"taxAmount"`
	Amount        decimal.Decimal     `json:"amount"`
	Invoiced      bool                `json:"invoiced"`
}

// SalesOrder is a confirmed customer order awaiting invoicing.
type SalesOrder struct {
	ID                   uuid.UUID            `json:"id"`
	OrderNumber          string               `json:"orderNumber"`
	ReferenceNumber      string               `json:"referenceNumber,omitempty"`
	Date                 time.Time            `json:"date"`
	ExpectedShipmentDate time.Time            `json:"expectedShipmentDate,omitempty"`
	CustomerID           uuid.UUID            `json:"customerId"`
	CustomerName         string               `json:"customerName"`
	BillingAddress       *shared.Address      `json:"billingAddress,omitempty"`
	ShippingAddress      *shared.Address      `json:"shippingAddress,omitempty"`
	PaymentTerms         string               `json:"paymentTerms,omitempty"`
	TaxScheme            ledger.TaxScheme     `json:"taxScheme"`
	Items                []OrderItem          `json:"items"`
	SubTotal             decimal.Decimal      `json:"subTotal"`
	ShippingCharges      decimal.Decimal      `json:"shippingCharges"`
	CGST                 decimal.Decimal      `json:"cgst"`
	SGST                 decimal.Decimal      `json:"sgst"`
	IGST                 decimal.Decimal      `json:"igst"`
	TaxAmount            decimal.Decimal      `json:"taxAmount"`
	Adjustment           decimal.Decimal      `json:"adjustment"`
	Total                decimal.Decimal      `json:"total"`
	Status               ledger.Status        `json:"status"`
	InvoiceNumbers       []string             `json:"invoiceNumbers"`
	ActivityLogs         []shared.ActivityLog `json:"activityLogs"`
	CustomerNotes        string               `json:"customerNotes,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// FullyInvoiced reports whether every line has been carried to an invoice.
func (o *SalesOrder) FullyInvoiced() bool {
	for _, it := range o.Items {
		if !it.Invoiced {
			return false
		}
	}
	return len(o.Items) > 0
}
