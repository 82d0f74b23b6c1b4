package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type CreateQuoteItemRequest struct {
	Details       string              `json:"details" validate:"required,max=500"`
	Account       string              `json:"account,omitempty"`
	Quantity      decimal.Decimal     `json:"quantity" validate:"required"`
	Rate          decimal.Decimal     `json:"rate"`
	DiscountType  ledger.DiscountType `json:"discountType,omitempty" validate:"omitempty,oneof=FLAT PERCENT"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	TaxPercent    decimal.Decimal     `json:"taxPercent"`
}

type CreateQuoteRequest struct {
	QuoteNumber     string                   `json:"quoteNumber,omitempty"`
	ReferenceNumber string                   `json:"referenceNumber,omitempty"`
	Date            time.Time                `json:"date" validate:"required"`
	ExpiryDate      time.Time                `json:"expiryDate,omitempty"`
	CustomerID      uuid.UUID                `json:"customerId" validate:"required"`
	CustomerName    string                   `json:"customerName" validate:"required,max=200"`
	BillingAddress  *shared.Address          `json:"billingAddress,omitempty"`
	Salesperson     string                   `json:"salesperson,omitempty"`
	TaxScheme       ledger.TaxScheme         `json:"taxScheme" validate:"required,oneof=INTRA_STATE INTER_STATE FLAT"`
	Items           []CreateQuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingCharges decimal.Decimal          `json:"shippingCharges"`
	Adjustment      decimal.Decimal          `json:"adjustment"`
	CustomerNotes   string                   `json:"customerNotes,omitempty"`
	Terms           string                   `json:"termsAndConditions,omitempty"`
}

type UpdateStatusRequest struct {
	Status ledger.Status `json:"status" validate:"required"`
}

type ListQuotesRequest struct {
	Status     ledger.Status `json:"status,omitempty"`
	CustomerID *uuid.UUID    `json:"customerId,omitempty"`
	Search     string        `json:"search,omitempty"`
	Page       int           `json:"page" validate:"gte=0"`
	PerPage    int           `json:"perPage" validate:"gte=0,lte=1000"`
}
