package invoices

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
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

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

// refreshStatus re-derives the display status from stored amounts. The
// stored status is never overwritten by this; only mutations persist status.
func (s *Service) refreshStatus(inv *Invoice) {
	inv.Status = ledger.DeriveStatus(inv.Status, inv.Total, inv.BalanceDue, inv.DueDate, s.now())
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, httpx.Invalid(err.Error())
	}
	list, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	for i := range list {
		s.refreshStatus(&list[i])
	}
	return list, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshStatus(inv)
	return inv, nil
}

func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}

	items := make([]InvoiceItem, 0, len(req.Items))
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
		items = append(items, InvoiceItem{
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

	var created *Invoice
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number := req.InvoiceNumber
		if number == "" {
			var err error
			if number, err = repo.NextNumber(ctx); err != nil {
				return fmt.Errorf("generate invoice number: %w", err)
			}
		}
		now := s.now()
		inv := Invoice{
			ID:              uuid.New(),
			InvoiceNumber:   number,
			ReferenceNumber: req.ReferenceNumber,
			Date:            req.Date,
			DueDate:         req.DueDate,
			CustomerID:      req.CustomerID,
			CustomerName:    req.CustomerName,
			BillingAddress:  req.BillingAddress,
			ShippingAddress: req.ShippingAddress,
			PlaceOfSupply:   req.PlaceOfSupply,
			Salesperson:     req.Salesperson,
			PaymentTerms:    req.PaymentTerms,
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
			BalanceDue:      ledger.BalanceDue(totals.Total, decimal.Zero, decimal.Zero),
			Status:          ledger.StatusDraft,
			SourceType:      req.SourceType,
			SourceNumber:    req.SourceNumber,
			CustomerNotes:   req.CustomerNotes,
			Terms:           req.Terms,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		s.appendActivity(&inv, "created", fmt.Sprintf("Invoice %s created for %s", inv.InvoiceNumber, money.Format(inv.Total)))
		if err := repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		created = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

// UpdateStatus handles the explicit status mutations the client performs:
// marking sent and voiding. Payment-driven statuses are owned by
// RecordPayment and cannot be set directly.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	if req.Status != ledger.StatusSent && req.Status != ledger.StatusVoid {
		return nil, httpx.Invalid(fmt.Sprintf("Status %s cannot be set directly", req.Status))
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		inv, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if inv.Status.Terminal() {
			return httpx.Invalid(fmt.Sprintf("Cannot change status of a %s invoice", inv.Status))
		}
		if req.Status == ledger.StatusSent && inv.Status != ledger.StatusDraft {
			return httpx.Invalid("Only draft invoices can be marked as sent")
		}
		inv.Status = req.Status
		s.appendActivity(inv, "status_changed", fmt.Sprintf("Status changed to %s", req.Status))
		return repo.Save(ctx, *inv)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// RecordPayment applies a payment against the invoice balance. The cap
// check runs against the balance re-read inside the transaction, so a
// concurrent payment from another session cannot overdraw the document.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		inv, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if inv.Status == ledger.StatusVoid {
			return httpx.Invalid("Cannot record a payment on a void invoice")
		}
		if err := ledger.ValidatePaymentAmount(req.Amount, inv.BalanceDue); err != nil {
			return err
		}

		paidAt := req.PaymentDate
		if paidAt.IsZero() {
			paidAt = s.now()
		}
		inv.Payments = append(inv.Payments, PaymentRecord{
			PaymentID: uuid.New(),
			Amount:    req.Amount,
			Mode:      req.PaymentMode,
			Date:      paidAt,
			Reference: req.Reference,
		})
		inv.AmountPaid = inv.AmountPaid.Add(req.Amount)
		inv.BalanceDue = ledger.BalanceDue(inv.Total, inv.AmountPaid, decimal.Zero)
		if inv.BalanceDue.IsZero() {
			inv.Status = ledger.StatusPaid
		} else {
			inv.Status = ledger.StatusPartiallyPaid
		}
		s.appendActivity(inv, "payment_recorded", fmt.Sprintf("Payment of %s recorded", money.Format(req.Amount)))
		return repo.Save(ctx, *inv)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ProcessRefund refunds part of the amount already collected. The ceiling
// is the amount paid minus refunds already processed; the balance due is
// unaffected.
func (s *Service) ProcessRefund(ctx context.Context, id uuid.UUID, req RefundRequest) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		inv, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ledger.ValidateRefundAmount(req.Amount, inv.AmountPaid, inv.AmountRefunded); err != nil {
			return err
		}
		mode := req.Mode
		if mode == "" {
			mode = "Cash"
		}
		reason := req.Reason
		if reason == "" {
			reason = "Refund processed"
		}
		inv.Refunds = append(inv.Refunds, Refund{
			ID:     uuid.New(),
			Amount: req.Amount,
			Mode:   mode,
			Reason: reason,
			Date:   s.now(),
		})
		inv.AmountRefunded = inv.AmountRefunded.Add(req.Amount)
		s.appendActivity(inv, "refund_processed", fmt.Sprintf("Refund of %s processed - %s", money.Format(req.Amount), reason))
		return repo.Save(ctx, *inv)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Journal returns the illustrative double-entry view of the invoice totals.
func (s *Service) Journal(ctx context.Context, id uuid.UUID) ([]ledger.JournalRow, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ledger.InvoiceJournal(inv.Totals()), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if inv.AmountPaid.IsPositive() {
		return httpx.Invalid("Cannot delete an invoice with recorded payments; void it instead")
	}
	return s.repo.Delete(ctx, id)
}

// MarkOverdue is invoked by the background scan to persist the date-based
// overdue transition.
func (s *Service) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	return s.repo.MarkOverdue(ctx, today)
}

func (s *Service) appendActivity(inv *Invoice, action, description string) {
	inv.ActivityLogs = append(inv.ActivityLogs, shared.ActivityLog{
		Action:      action,
		Description: description,
		Date:        s.now().Format(time.RFC3339),
	})
}
