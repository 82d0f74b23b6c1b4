package bills

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type CreateBillItemRequest struct {
	Details       string              `json:"details" validate:"required,max=500"`
	Account       string              `json:"account,omitempty"`
	Quantity      decimal.Decimal     `json:"quantity" validate:"required"`
	Rate          decimal.Decimal     `json:"rate"`
	DiscountType  ledger.DiscountType `json:"discountType,omitempty" validate:"omitempty,oneof=FLAT PERCENT"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	TaxPercent    decimal.Decimal     `json:"taxPercent"`
}

type CreateBillRequest struct {
	BillNumber      string                  `json:"billNumber,omitempty"`
	OrderNumber     string                  `json:"orderNumber,omitempty"`
	Date            time.Time               `json:"date" validate:"required"`
	DueDate         time.Time               `json:"dueDate" validate:"required"`
	VendorID        uuid.UUID               `json:"vendorId" validate:"required"`
	VendorName      string                  `json:"vendorName" validate:"required,max=200"`
	VendorAddress   *shared.Address         `json:"vendorAddress,omitempty"`
	SourceOfSupply  string                  `json:"sourceOfSupply,omitempty"`
	PaymentTerms    string                  `json:"paymentTerms,omitempty"`
	TaxScheme       ledger.TaxScheme        `json:"taxScheme" validate:"required,oneof=INTRA_STATE INTER_STATE FLAT"`
	Items           []CreateBillItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingCharges decimal.Decimal         `json:"shippingCharges"`
	Adjustment      decimal.Decimal         `json:"adjustment"`
	Notes           string                  `json:"notes,omitempty"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	PaymentMode string          `json:"paymentMode,omitempty"`
	PaymentDate time.Time       `json:"paymentDate,omitempty"`
	Reference   string          `json:"reference,omitempty"`
}

type ApplyCreditRequest struct {
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	CreditNoteNumber string          `json:"creditNoteNumber,omitempty"`
}

type ListBillsRequest struct {
	Status   ledger.Status `json:"status,omitempty"`
	VendorID *uuid.UUID    `json:"vendorId,omitempty"`
	Search   string        `json:"search,omitempty"`
	Page     int           `json:"page" validate:"gte=0"`
	PerPage  int           `json:"perPage" validate:"gte=0,lte=1000"`
}
