package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillPaymentRequest struct {
	BillID uuid.UUID       `json:"billId" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type CreatePaymentRequest struct {
	PaymentNumber string               `json:"paymentNumber,omitempty"`
	Date          time.Time            `json:"date" validate:"required"`
	VendorID      uuid.UUID            `json:"vendorId" validate:"required"`
	VendorName    string               `json:"vendorName" validate:"required,max=200"`
	PaymentMode   string               `json:"paymentMode,omitempty"`
	Amount        decimal.Decimal      `json:"amount" validate:"required"`
	Reference     string               `json:"reference,omitempty"`
	BillPayments  []BillPaymentRequest `json:"billPayments" validate:"dive"`
	Notes         string               `json:"notes,omitempty"`
}

type ListPaymentsRequest struct {
	VendorID *uuid.UUID `json:"vendorId,omitempty"`
	Search   string     `json:"search,omitempty"`
	Page     int        `json:"page" validate:"gte=0"`
	PerPage  int        `json:"perPage" validate:"gte=0,lte=1000"`
}
