package vendors

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type CreateVendorRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	DisplayName     string          `json:"displayName,omitempty" validate:"max=200"`
	CompanyName     string          `json:"companyName,omitempty" validate:"max=200"`
	Email           string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string          `json:"phone,omitempty" validate:"max=30"`
	GSTIN           string          `json:"gstin,omitempty" validate:"omitempty,len=15"`
	GSTTreatment    string          `json:"gstTreatment,omitempty"`
	Currency        string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	PaymentTerms    string          `json:"paymentTerms,omitempty"`
	SourceOfSupply  string          `json:"sourceOfSupply,omitempty"`
	BillingAddress  *shared.Address `json:"billingAddress,omitempty"`
	ShippingAddress *shared.Address `json:"shippingAddress,omitempty"`
}

type UpdateVendorRequest struct {
	Name            *string         `json:"name,omitempty" validate:"omitempty,max=200"`
	DisplayName     *string         `json:"displayName,omitempty"`
	CompanyName     *string         `json:"companyName,omitempty"`
	Email           *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string         `json:"phone,omitempty"`
	GSTIN           *string         `json:"gstin,omitempty" validate:"omitempty,len=15"`
	GSTTreatment    *string         `json:"gstTreatment,omitempty"`
	PaymentTerms    *string         `json:"paymentTerms,omitempty"`
	SourceOfSupply  *string         `json:"sourceOfSupply,omitempty"`
	Status          *VendorStatus   `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	BillingAddress  *shared.Address `json:"billingAddress,omitempty"`
	ShippingAddress *shared.Address `json:"shippingAddress,omitempty"`
}

type ListVendorsRequest struct {
	Search  string `json:"search"`
	Page    int    `json:"page" validate:"gte=0"`
	PerPage int    `json:"perPage" validate:"gte=0,lte=1000"`
}
