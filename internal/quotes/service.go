package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/money"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// quoteTransitions maps each quote status to the statuses reachable
// from it. DECLINED and CONVERTED are terminal.
var quoteTransitions = map[ledger.Status][]ledger.Status{
	ledger.StatusDraft:           {ledger.StatusPendingApproval, ledger.StatusSent},
	ledger.StatusPendingApproval: {ledger.StatusApproved, ledger.StatusDraft},
	ledger.StatusApproved:        {ledger.StatusSent},
	ledger.StatusSent:            {ledger.StatusCustomerViewed, ledger.StatusAccepted, ledger.StatusDeclined},
	ledger.StatusCustomerViewed:  {ledger.StatusAccepted, ledger.StatusDeclined},
	ledger.StatusAccepted:        {ledger.StatusInvoiced, ledger.StatusConverted},
	ledger.StatusInvoiced:        {ledger.StatusConverted},
}

func canTransition(from, to ledger.Status) bool {
	for _, s := range quoteTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New(), now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, httpx.Invalid(err.Error())
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}

	items := make([]QuoteItem, 0, len(req.Items))
	lines := make([]ledger.LineInput, 0, len(req.Items))
	for _, it := range req.Items {
		line := ledger.LineInput{
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			DiscountType:  it.DiscountType,
			DiscountValue: it.DiscountValue,
			TaxPercent:    it.TaxPercent,
		}
		res := ledger.ComputeLine(line)
		lines = append(lines, line)
		items = append(items, QuoteItem{
			Details:       it.Details,
			Account:       it.Account,
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			DiscountType:  it.DiscountType,
			DiscountValue: it.DiscountValue,
			TaxPercent:    it.TaxPercent,
			TaxAmount:     res.Tax,
			Amount:        res.Amount,
		})
	}
	totals := ledger.ComputeTotals(ledger.TotalsInput{
		Lines:           lines,
		Scheme:          req.TaxScheme,
		ShippingCharges: req.ShippingCharges,
		Adjustment:      req.Adjustment,
	})

	var created *Quote
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number := req.QuoteNumber
		if number == "" {
			var err error
			if number, err = repo.NextNumber(ctx); err != nil {
				return fmt.Errorf("generate quote number: %w", err)
			}
		}
		now := s.now()
		q := Quote{
			ID:              uuid.New(),
			QuoteNumber:     number,
			ReferenceNumber: req.ReferenceNumber,
			Date:            req.Date,
			ExpiryDate:      req.ExpiryDate,
			CustomerID:      req.CustomerID,
			CustomerName:    req.CustomerName,
			BillingAddress:  req.BillingAddress,
			Salesperson:     req.Salesperson,
			TaxScheme:       req.TaxScheme,
			Items:           items,
			SubTotal:        totals.SubTotal,
			ShippingCharges: totals.ShippingCharges,
			CGST:            totals.CGST,
			SGST:            totals.SGST,
			IGST:            totals.IGST,
			TaxAmount:       totals.TaxAmount,
			Adjustment:      totals.Adjustment,
			Total:           totals.Total,
			Status:          ledger.StatusDraft,
			CustomerNotes:   req.CustomerNotes,
			Terms:           req.Terms,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		s.appendActivity(&q, "created", fmt.Sprintf("Quote %s created for %s", q.QuoteNumber, money.Format(q.Total)))
		if err := repo.Create(ctx, q); err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		created = &q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus moves the quote along its lifecycle, rejecting transitions
// the state machine does not allow.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	var updated *Quote
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		q, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if q.Status.Terminal() {
			return httpx.Invalid(fmt.Sprintf("Cannot change status of a %s quote", q.Status))
		}
		if !canTransition(q.Status, req.Status) {
			return httpx.Invalid(fmt.Sprintf("Cannot move quote from %s to %s", q.Status, req.Status))
		}
		q.Status = req.Status
		s.appendActivity(q, "status_changed", fmt.Sprintf("Status changed to %s", req.Status))
		if err := repo.Save(ctx, *q); err != nil {
			return err
		}
		updated = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if q.Status == ledger.StatusInvoiced || q.Status == ledger.StatusConverted {
		return httpx.Invalid("Cannot delete a quote that has been invoiced")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) appendActivity(q *Quote, action, description string) {
	q.ActivityLogs = append(q.ActivityLogs, shared.ActivityLog{
		Action:      action,
		Description: description,
		Date:        s.now().Format(time.RFC3339),
	})
}
