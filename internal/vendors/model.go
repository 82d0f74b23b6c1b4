package vendors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// VendorStatus enumerates vendor master statuses.
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "ACTIVE"
	VendorStatusInactive VendorStatus = "INACTIVE"
)

// Vendor is a supplier master record referenced by bills and payments made.
type Vendor struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	DisplayName     string          `json:"displayName,omitempty"`
	CompanyName     string          `json:"companyName,omitempty"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	GSTIN           string          `json:"gstin,omitempty"`
	GSTTreatment    string          `json:"gstTreatment,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	PaymentTerms    string          `json:"paymentTerms,omitempty"`
	SourceOfSupply  string          `json:"sourceOfSupply,omitempty"`
	BillingAddress  *shared.Address `json:"billingAddress,omitempty"`
	ShippingAddress *shared.Address `json:"shippingAddress,omitempty"`
	Payables        decimal.Decimal `json:"payables"`
	UnusedCredits   decimal.Decimal `json:"unusedCredits"`
	Status          VendorStatus    `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
