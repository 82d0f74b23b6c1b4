package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillPayment is one allocation of a payment-made document to a bill.
type BillPayment struct {
	BillID     uuid.UUID       `json:"billId"`
	BillNumber string          `json:"billNumber"`
	Amount     decimal.Decimal `json:"amount"`
}

// Payment is a payment-made document: money paid to a vendor, optionally
// allocated across that vendor's bills. Whatever is not allocated stays as
// unusedAmount (vendor excess credit).
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	PaymentNumber string          `json:"paymentNumber"`
	Date          time.Time       `json:"date"`
	VendorID      uuid.UUID       `json:"vendorId"`
	VendorName    string          `json:"vendorName"`
	PaymentMode   string          `json:"paymentMode,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	UnusedAmount  decimal.Decimal `json:"unusedAmount"`
	Reference     string          `json:"reference,omitempty"`
	BillPayments  []BillPayment   `json:"billPayments"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// PaymentDetail is the detail payload; it carries the amount spelled out
// in words alongside the stored fields.
type PaymentDetail struct {
	Payment
	AmountInWords string `json:"amountInWords"`
}
