package bills

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

func (s *Service) refreshStatus(b *Bill) {
	b.Status = ledger.DeriveStatus(b.Status, b.Total, b.BalanceDue, b.DueDate, s.now())
}

func (s *Service) List(ctx context.Context, req ListBillsRequest) ([]Bill, int, error) {
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

// ListOutstanding feeds the payables aging report.
func (s *Service) ListOutstanding(ctx context.Context) ([]Bill, error) {
	list, err := s.repo.ListOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.refreshStatus(&list[i])
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshStatus(b)
	return b, nil
}

func (s *Service) Create(ctx context.Context, req CreateBillRequest) (*Bill, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}

	items := make([]BillItem, 0, len(req.Items))
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
		items = append(items, BillItem{
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

	var created *Bill
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number := req.BillNumber
		if number == "" {
			var err error
			if number, err = repo.NextNumber(ctx); err != nil {
				return fmt.Errorf("generate bill number: %w", err)
			}
		}
		now := s.now()
		b := Bill{
			ID:              uuid.New(),
			BillNumber:      number,
			OrderNumber:     req.OrderNumber,
			Date:            req.Date,
			DueDate:         req.DueDate,
			VendorID:        req.VendorID,
			VendorName:      req.VendorName,
			VendorAddress:   req.VendorAddress,
			SourceOfSupply:  req.SourceOfSupply,
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
			Status:          ledger.StatusOpen,
			JournalEntries:  ledger.BillJournal(totals),
			Notes:           req.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		s.appendActivity(&b, "created", fmt.Sprintf("Bill %s created for %s", b.BillNumber, money.Format(b.Total)))
		if err := repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		created = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

// RecordPayment applies a direct payment against the bill balance.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*Bill, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == ledger.StatusVoid {
			return httpx.Invalid("Cannot record a payment on a void bill")
		}
		if err := ledger.ValidatePaymentAmount(req.Amount, b.BalanceDue); err != nil {
			return err
		}
		paidAt := req.PaymentDate
		if paidAt.IsZero() {
			paidAt = s.now()
		}
		s.applyPayment(b, PaymentRecord{
			PaymentID: uuid.New(),
			Amount:    req.Amount,
			Mode:      req.PaymentMode,
			Date:      paidAt,
			Reference: req.Reference,
		})
		return repo.Save(ctx, *b)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// MarkPaid settles the remaining balance with a single payment record.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*Bill, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == ledger.StatusVoid {
			return httpx.Invalid("Cannot mark a void bill as paid")
		}
		if !b.BalanceDue.IsPositive() {
			return httpx.Invalid("Bill is already fully paid")
		}
		s.applyPayment(b, PaymentRecord{
			PaymentID: uuid.New(),
			Amount:    b.BalanceDue,
			Mode:      "Cash",
			Date:      s.now(),
			Reference: "Marked as paid",
		})
		return repo.Save(ctx, *b)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Void cancels an unpaid bill. Bills with payments must have them reversed
// first.
func (s *Service) Void(ctx context.Context, id uuid.UUID) (*Bill, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if b.Status.Terminal() {
			return httpx.Invalid(fmt.Sprintf("Cannot void a %s bill", b.Status))
		}
		if b.AmountPaid.IsPositive() {
			return httpx.Invalid("Cannot void a bill with recorded payments")
		}
		b.Status = ledger.StatusVoid
		s.appendActivity(b, "voided", fmt.Sprintf("Bill %s voided", b.BillNumber))
		return repo.Save(ctx, *b)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ApplyCredit applies a vendor credit against the bill. Credits reduce the
// balance due but never the amount paid, so they are not refundable.
func (s *Service) ApplyCredit(ctx context.Context, id uuid.UUID, req ApplyCreditRequest) (*Bill, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == ledger.StatusVoid {
			return httpx.Invalid("Cannot apply a credit to a void bill")
		}
		if !req.Amount.IsPositive() {
			return httpx.Invalid("Credit amount must be greater than 0")
		}
		if req.Amount.GreaterThan(b.BalanceDue) {
			return httpx.Invalid(fmt.Sprintf("Credit amount cannot exceed balance due of %s", money.Format(b.BalanceDue)))
		}
		b.CreditsApplied = append(b.CreditsApplied, CreditApplied{
			ID:               uuid.New(),
			CreditNoteNumber: req.CreditNoteNumber,
			Amount:           req.Amount,
			Date:             s.now(),
		})
		s.reconcile(b)
		s.appendActivity(b, "credit_applied", fmt.Sprintf("Vendor credit of %s applied", money.Format(req.Amount)))
		return repo.Save(ctx, *b)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AllocatePayment applies one allocation from a payment-made document and
// returns the bill number it settled against. The balance check runs
// against the bill re-read inside the transaction.
func (s *Service) AllocatePayment(ctx context.Context, billID uuid.UUID, reference string, amount decimal.Decimal, date time.Time) (string, error) {
	var billNumber string
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.Get(ctx, billID)
		if err != nil {
			return err
		}
		if b.Status == ledger.StatusVoid {
			return httpx.Invalid(fmt.Sprintf("Cannot allocate a payment to void bill %s", b.BillNumber))
		}
		if amount.GreaterThan(b.BalanceDue) {
			return httpx.Invalid(fmt.Sprintf("Allocation to bill %s cannot exceed its balance due of %s",
				b.BillNumber, money.Format(b.BalanceDue)))
		}
		billNumber = b.BillNumber
		s.applyPayment(b, PaymentRecord{
			PaymentID: uuid.New(),
			Amount:    amount,
			Mode:      "Payment Made",
			Date:      date,
			Reference: reference,
		})
		return repo.Save(ctx, *b)
	})
	return billNumber, err
}

// ReleaseAllocation reverses every allocation carrying the given payment
// reference, used when a payment-made document is deleted.
func (s *Service) ReleaseAllocation(ctx context.Context, billID uuid.UUID, reference string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		b, err := repo.Get(ctx, billID)
		if err != nil {
			return err
		}
		kept := b.Payments[:0]
		released := decimal.Zero
		for _, p := range b.Payments {
			if p.Reference == reference {
				released = released.Add(p.Amount)
				continue
			}
			kept = append(kept, p)
		}
		if released.IsZero() {
			return nil
		}
		b.Payments = kept
		b.AmountPaid = money.ClampNonNegative(b.AmountPaid.Sub(released))
		s.reconcile(b)
		if b.Status == ledger.StatusPaid || b.Status == ledger.StatusPartiallyPaid {
			if b.AmountPaid.IsPositive() {
				b.Status = ledger.StatusPartiallyPaid
			} else {
				b.Status = ledger.StatusOpen
			}
		}
		s.appendActivity(b, "payment_reversed", fmt.Sprintf("Payment %s reversed (%s)", reference, money.Format(released)))
		return repo.Save(ctx, *b)
	})
}

// Journal returns the stored journal entries, synthesizing the fallback
// projection for bills persisted without them.
func (s *Service) Journal(ctx context.Context, id uuid.UUID) ([]ledger.JournalRow, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(b.JournalEntries) > 0 {
		return b.JournalEntries, nil
	}
	return ledger.BillJournal(b.Totals()), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if b.AmountPaid.IsPositive() {
		return httpx.Invalid("Cannot delete a bill with recorded payments; void it instead")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	return s.repo.MarkOverdue(ctx, today)
}

func (s *Service) applyPayment(b *Bill, p PaymentRecord) {
	b.Payments = append(b.Payments, p)
	b.AmountPaid = b.AmountPaid.Add(p.Amount)
	s.reconcile(b)
	if b.BalanceDue.IsZero() {
		b.Status = ledger.StatusPaid
	} else {
		b.Status = ledger.StatusPartiallyPaid
	}
	s.appendActivity(b, "payment_recorded", fmt.Sprintf("Payment of %s recorded", money.Format(p.Amount)))
}

func (s *Service) reconcile(b *Bill) {
	b.BalanceDue = ledger.BalanceDue(b.Total, b.AmountPaid, b.CreditTotal())
}

func (s *Service) appendActivity(b *Bill, action, description string) {
	b.ActivityLogs = append(b.ActivityLogs, shared.ActivityLog{
		Action:      action,
		Description: description,
		Date:        s.now().Format(time.RFC3339),
	})
}
