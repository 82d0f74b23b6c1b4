package salesorders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type CreateOrderItemRequest struct {
	Details       string              `json:"details" validate:"required,max=500"`
	Account       string              `json:"account,omitempty"`
	Quantity      decimal.Decimal     `json:"quantity" validate:"required"`
	Rate          decimal.Decimal     `json:"rate"`
	DiscountType  ledger.DiscountType `json:"discountType,omitempty" validate:"omitempty,oneof=FLAT PERCENT"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	TaxPercent    decimal.Decimal     `json:"taxPercent"`
}

type CreateOrderRequest struct {
	OrderNumber          string                   `json:"orderNumber,omitempty"`
	ReferenceNumber      string                   `json:"referenceNumber,omitempty"`
	Date                 time.Time                `json:"date" validate:"required"`
	ExpectedShipmentDate time.Time                `json:"expectedShipmentDate,omitempty"`
	CustomerID           uuid.UUID                `json:"customerId" validate:"required"`
	CustomerName         string                   `json:"customerName" validate:"required,max=200"`
	BillingAddress       *shared.Address          `json:"billingAddress,omitempty"`
	ShippingAddress      *shared.Address          `json:"shippingAddress,omitempty"`
	PaymentTerms         string                   `json:"paymentTerms,omitempty"`
	TaxScheme            ledger.TaxScheme         `json:"taxScheme" validate:"required,oneof=INTRA_STATE INTER_STATE FLAT"`
	Items                []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingCharges      decimal.Decimal          `json:"shippingCharges"`
	Adjustment           decimal.Decimal          `json:"adjustment"`
	CustomerNotes        string                   `json:"customerNotes,omitempty"`
}

// ConvertRequest selects what to invoice. An empty ItemIndexes converts
// every remaining uninvoiced line.
type ConvertRequest struct {
	DueDate     time.Time `json:"dueDate" validate:"required"`
	ItemIndexes []int     `json:"itemIndexes,omitempty"`
}

type ListOrdersRequest struct {
	Status     ledger.Status `json:"status,omitempty"`
	CustomerID *uuid.UUID    `json:"customerId,omitempty"`
	Search     string        `json:"search,omitempty"`
	Page       int           `json:"page" validate:"gte=0"`
	PerPage    int           `json:"perPage" validate:"gte=0,lte=1000"`
}
