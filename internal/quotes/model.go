package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// QuoteItem is one line of a quote.
type QuoteItem struct {
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

// Quote is a price quotation moving through the approval and customer
// acceptance lifecycle.
type Quote struct {
	ID              uuid.UUID            `json:"id"`
	QuoteNumber     string               `json:"quoteNumber"`
	ReferenceNumber string               `json:"referenceNumber,omitempty"`
	Date            time.Time            `json:"date"`
	ExpiryDate      time.Time            `json:"expiryDate,omitempty"`
	CustomerID      uuid.UUID            `json:"customerId"`
	CustomerName    string               `json:"customerName"`
	BillingAddress  *shared.Address      `json:"billingAddress,omitempty"`
	Salesperson     string               `json:"salesperson,omitempty"`
	TaxScheme       ledger.TaxScheme     `json:"taxScheme"`
	Items           []QuoteItem          `json:"items"`
	SubTotal        decimal.Decimal      `json:"subTotal"`
	ShippingCharges decimal.Decimal      `json:"shippingCharges"`
	CGST            decimal.Decimal      `json:"cgst"`
	SGST            decimal.Decimal      `json:"sgst"`
	IGST            decimal.Decimal      `json:"igst"`
	TaxAmount       decimal.Decimal      `json:"taxAmount"`
	Adjustment      decimal.Decimal      `json:"adjustment"`
	Total           decimal.Decimal      `json:"total"`
	Status          ledger.Status        `json:"status"`
	ActivityLogs    []shared.ActivityLog `json:"activityLogs"`
	CustomerNotes   string               `json:"customerNotes,omitempty"`
	Terms           string               `json:"termsAndConditions,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}
