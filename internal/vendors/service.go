package vendors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, req ListVendorsRequest) ([]Vendor, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, httpx.Invalid(err.Error())
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateVendorRequest) (*Vendor, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	now := s.now()
	v := Vendor{
		ID:              uuid.New(),
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		CompanyName:     req.CompanyName,
		Email:           req.Email,
		Phone:           req.Phone,
		GSTIN:           req.GSTIN,
		GSTTreatment:    req.GSTTreatment,
		Currency:        req.Currency,
		OpeningBalance:  req.OpeningBalance,
		PaymentTerms:    req.PaymentTerms,
		SourceOfSupply:  req.SourceOfSupply,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		Payables:        req.OpeningBalance,
		Status:          VendorStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return s.repo.Get(ctx, v.ID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*Vendor, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := *existing
	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.DisplayName != nil {
		v.DisplayName = *req.DisplayName
	}
	if req.CompanyName != nil {
		v.CompanyName = *req.CompanyName
	}
	if req.Email != nil {
		v.Email = *req.Email
	}
	if req.Phone != nil {
		v.Phone = *req.Phone
	}
	if req.GSTIN != nil {
		v.GSTIN = *req.GSTIN
	}
	if req.GSTTreatment != nil {
		v.GSTTreatment = *req.GSTTreatment
	}
	if req.PaymentTerms != nil {
		v.PaymentTerms = *req.PaymentTerms
	}
	if req.SourceOfSupply != nil {
		v.SourceOfSupply = *req.SourceOfSupply
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.BillingAddress != nil {
		v.BillingAddress = req.BillingAddress
	}
	if req.ShippingAddress != nil {
		v.ShippingAddress = req.ShippingAddress
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
