package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/money"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

// BillAllocator is the slice of the bills service payments need: applying
// and reversing allocations against bill balances.
type BillAllocator interface {
	AllocatePayment(ctx context.Context, billID uuid.UUID, reference string, amount decimal.Decimal, date time.Time) (billNumber string, err error)
	ReleaseAllocation(ctx context.Context, billID uuid.UUID, reference string) error
}

type Service struct {
	repo     Repository
	bills    BillAllocator
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, bills BillAllocator) *Service {
	return &Service{repo: repo, bills: bills, validate: validator.New(), now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, httpx.Invalid(err.Error())
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PaymentDetail, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PaymentDetail{
		Payment:       *p,
		AmountInWords: money.InWords(p.Amount),
	}, nil
}

// NextNumber previews the number the next payment will receive.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	return s.repo.PeekNumber(ctx)
}

// Create records a payment made and applies its bill allocations. Each
// allocation is checked against the bill's live balance; any failure after
// allocations begin, including the payment insert itself, releases the
// allocations already applied and aborts the payment.
func (s *Service) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentDetail, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	amounts := make([]decimal.Decimal, 0, len(req.BillPayments))
	for _, bp := range req.BillPayments {
		amounts = append(amounts, bp.Amount)
	}
	if err := ledger.ValidateAllocations(req.Amount, amounts); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, httpx.Invalid("Payment amount must be greater than 0")
	}

	var created *Payment
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number := req.PaymentNumber
		if number == "" {
			var err error
			if number, err = repo.NextNumber(ctx); err != nil {
				return fmt.Errorf("generate payment number: %w", err)
			}
		}

		applied := make([]uuid.UUID, 0, len(req.BillPayments))
		release := func(cause error) error {
			for _, billID := range applied {
				if rerr := s.bills.ReleaseAllocation(ctx, billID, number); rerr != nil {
					return fmt.Errorf("release allocation after failure: %w", rerr)
				}
			}
			return cause
		}

		allocations := make([]BillPayment, 0, len(req.BillPayments))
		for _, bp := range req.BillPayments {
			billNumber, err := s.bills.AllocatePayment(ctx, bp.BillID, number, bp.Amount, req.Date)
			if err != nil {
				return release(err)
			}
			applied = append(applied, bp.BillID)
			allocations = append(allocations, BillPayment{
				BillID:     bp.BillID,
				BillNumber: billNumber,
				Amount:     bp.Amount,
			})
		}

		now := s.now()
		p := Payment{
			ID:            uuid.New(),
			PaymentNumber: number,
			Date:          req.Date,
			VendorID:      req.VendorID,
			VendorName:    req.VendorName,
			PaymentMode:   req.PaymentMode,
			Amount:        req.Amount,
			UnusedAmount:  ledger.UnusedAmount(req.Amount, amounts),
			Reference:     req.Reference,
			BillPayments:  allocations,
			Notes:         req.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.Create(ctx, p); err != nil {
			return release(fmt.Errorf("create payment: %w", err))
		}
		created = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

// Delete removes a payment made and reverses its allocations on the bills
// it was applied to.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		for _, bp := range p.BillPayments {
			if err := s.bills.ReleaseAllocation(ctx, bp.BillID, p.PaymentNumber); err != nil {
				return fmt.Errorf("reverse allocation on bill %s: %w", bp.BillID, err)
			}
		}
		return repo.Delete(ctx, id)
	})
}
