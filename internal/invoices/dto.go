package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type CreateInvoiceItemRequest struct {
	Details       string              `json:"details" validate:"required,max=500"`
	Account       string              `json:"account,omitempty"`
	Quantity      decimal.Decimal     `json:"quantity" validate:"required"`
	Rate          decimal.Decimal     `json:"rate"`
	DiscountType  ledger.DiscountType `json:"discountType,omitempty" validate:"omitempty,oneof=FLAT PERCENT"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	TaxPercent    decimal.Decimal     `json:"taxPercent"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber   string                     `json:"invoiceNumber,omitempty"`
	ReferenceNumber string                     `json:"referenceNumber,omitempty"`
	Date            time.Time                  `json:"date" validate:"required"`
	DueDate         time.Time                  `json:"dueDate" validate:"required"`
	CustomerID      uuid.UUID                  `json:"customerId" validate:"required"`
	CustomerName    string                     `json:"customerName" validate:"required,max=200"`
	BillingAddress  *shared.Address            `json:"billingAddress,omitempty"`
	ShippingAddress *shared.Address            `json:"shippingAddress,omitempty"`
	PlaceOfSupply   string                     `json:"placeOfSupply,omitempty"`
	Salesperson     string                     `json:"salesperson,omitempty"`
	PaymentTerms    string                     `json:"paymentTerms,omitempty"`
	TaxScheme       ledger.TaxScheme           `json:"taxScheme" validate:"required,oneof=INTRA_STATE INTER_STATE FLAT"`
	Items           []CreateInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingCharges decimal.Decimal            `json:"shippingCharges"`
	Adjustment      decimal.Decimal            `json:"adjustment"`
	SourceType      string                     `json:"sourceType,omitempty"`
	SourceNumber    string                     `json:"sourceNumber,omitempty"`
	CustomerNotes   string                     `json:"customerNotes,omitempty"`
	Terms           string                     `json:"termsAndConditions,omitempty"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	PaymentMode string          `json:"paymentMode,omitempty"`
	PaymentDate time.Time       `json:"paymentDate,omitempty"`
	Reference   string          `json:"reference,omitempty"`
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Mode   string          `json:"mode,omitempty"`
	Reason string          `json:"reason,omitempty"`
}

type UpdateStatusRequest struct {
	Status ledger.Status `json:"status" validate:"required"`
}

type ListInvoicesRequest struct {
	Status     ledger.Status `json:"status,omitempty"`
	CustomerID *uuid.UUID    `json:"customerId,omitempty"`
	Search     string        `json:"search,omitempty"`
	Page       int           `json:"page" validate:"gte=0"`
	PerPage    int           `json:"perPage" validate:"gte=0,lte=1000"`
}
