package invoices

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

type memoryInvoiceRepo struct {
	invoices map[uuid.UUID]Invoice
	seq      int
}

func newMemoryInvoiceRepo() *memoryInvoiceRepo {
	return &memoryInvoiceRepo{invoices: make(map[uuid.UUID]Invoice)}
}

func (r *memoryInvoiceRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryInvoiceRepo) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		if req.Status != "" && inv.Status != req.Status {
			continue
		}
		if req.CustomerID != nil && inv.CustomerID != *req.CustomerID {
			continue
		}
		if req.Search != "" && !strings.Contains(strings.ToLower(inv.InvoiceNumber+" "+inv.CustomerName), strings.ToLower(req.Search)) {
			continue
		}
		out = append(out, inv)
	}
	return out, len(out), nil
}

func (r *memoryInvoiceRepo) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice: %w", httpx.ErrNotFound)
	}
	return &inv, nil
}

func (r *memoryInvoiceRepo) Create(ctx context.Context, inv Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *memoryInvoiceRepo) Save(ctx context.Context, inv Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return fmt.Errorf("invoice: %w", httpx.ErrNotFound)
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *memoryInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.invoices[id]; !ok {
		return fmt.Errorf("invoice: %w", httpx.ErrNotFound)
	}
	delete(r.invoices, id)
	return nil
}

func (r *memoryInvoiceRepo) NextNumber(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("INV-%05d", r.seq), nil
}

func (r *memoryInvoiceRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	var n int64
	for id, inv := range r.invoices {
		if inv.DueDate.Before(today) && inv.BalanceDue.IsPositive() &&
			(inv.Status == ledger.StatusOpen || inv.Status == ledger.StatusSent || inv.Status == ledger.StatusPartiallyPaid) {
			inv.Status = ledger.StatusOverdue
			r.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

var testClock = func() time.Time {
	return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
}

func newTestService() *Service {
	svc := NewService(newMemoryInvoiceRepo())
	svc.WithNow(testClock)
	return svc
}

func createTestInvoice(t *testing.T, svc *Service) *Invoice {
	t.Helper()
	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Date:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:   uuid.New(),
		CustomerName: "Orbit Retail",
		TaxScheme:    ledger.TaxIntraState,
		Items: []CreateInvoiceItemRequest{
			{Details: "Consulting", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(18)},
		},
	})
	require.NoError(t, err)
	return inv
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	require.Equal(t, "INV-00001", inv.InvoiceNumber)
	require.True(t, inv.SubTotal.Equal(decimal.NewFromInt(1000)), "subTotal %s", inv.SubTotal)
	require.True(t, inv.CGST.Equal(decimal.NewFromInt(90)), "cgst %s", inv.CGST)
	require.True(t, inv.SGST.Equal(decimal.NewFromInt(90)), "sgst %s", inv.SGST)
	require.True(t, inv.IGST.IsZero())
	require.True(t, inv.Total.Equal(decimal.NewFromInt(1180)), "total %s", inv.Total)
	require.True(t, inv.BalanceDue.Equal(inv.Total))
	require.Equal(t, ledger.StatusDraft, inv.Status)
	require.Len(t, inv.ActivityLogs, 1)
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRecordPaymentLifecycle(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	inv, err := svc.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount:      decimal.NewFromInt(500),
		PaymentMode: "Bank Transfer",
	})
	require.NoError(t, err)
	require.Equal(t, ledger.StatusPartiallyPaid, inv.Status)
	require.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(500)))
	require.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(680)))
	require.Len(t, inv.Payments, 1)

	inv, err = svc.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(680),
	})
	require.NoError(t, err)
	require.Equal(t, ledger.StatusPaid, inv.Status)
	require.True(t, inv.BalanceDue.IsZero())
}

func TestRecordPaymentOverBalance(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	_, err := svc.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(2000),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "Payment amount cannot exceed balance due of ₹1,180.00")
}

func TestRefundCappedByAmountPaid(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	_, err := svc.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(800),
	})
	require.NoError(t, err)

	inv, err = svc.ProcessRefund(context.Background(), inv.ID, RefundRequest{
		Amount: decimal.NewFromInt(300),
		Reason: "Damaged goods",
	})
	require.NoError(t, err)
	require.True(t, inv.AmountRefunded.Equal(decimal.NewFromInt(300)))
	// Refunds do not touch the balance due.
	require.True(t, inv.BalanceDue.Equal(decimal.NewFromInt(380)))

	_, err = svc.ProcessRefund(context.Background(), inv.ID, RefundRequest{
		Amount: decimal.NewFromInt(600),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "Refund amount cannot exceed refundable balance of ₹500.00")
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	inv, err := svc.UpdateStatus(context.Background(), inv.ID, UpdateStatusRequest{Status: ledger.StatusSent})
	require.NoError(t, err)
	require.Equal(t, ledger.StatusSent, inv.Status)

	// SENT is only reachable from DRAFT.
	_, err = svc.UpdateStatus(context.Background(), inv.ID, UpdateStatusRequest{Status: ledger.StatusSent})
	require.ErrorIs(t, err, httpx.ErrValidation)

	inv, err = svc.UpdateStatus(context.Background(), inv.ID, UpdateStatusRequest{Status: ledger.StatusVoid})
	require.NoError(t, err)
	require.Equal(t, ledger.StatusVoid, inv.Status)

	_, err = svc.UpdateStatus(context.Background(), inv.ID, UpdateStatusRequest{Status: ledger.StatusSent})
	require.EqualError(t, err, "Cannot change status of a VOID invoice")
}

func TestUpdateStatusRejectsDerivedStatuses(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	_, err := svc.UpdateStatus(context.Background(), inv.ID, UpdateStatusRequest{Status: ledger.StatusPaid})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGetDerivesOverdue(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	_, err := svc.UpdateStatus(context.Background(), inv.ID, UpdateStatusRequest{Status: ledger.StatusSent})
	require.NoError(t, err)

	svc.WithNow(func() time.Time {
		return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	})
	got, err := svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusOverdue, got.Status)
}

func TestJournalBalances(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	rows, err := svc.Journal(context.Background(), inv.ID)
	require.NoError(t, err)
	require.True(t, ledger.Balanced(rows))
	require.Equal(t, "Accounts Receivable", rows[0].Account)
	require.True(t, rows[0].Debit.Equal(inv.Total))
}

func TestDeleteInvoiceWithPayments(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)

	_, err := svc.RecordPayment(context.Background(), inv.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), inv.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestMarkOverdueScan(t *testing.T) {
	svc := newTestService()
	inv := createTestInvoice(t, svc)
	_, err := svc.UpdateStatus(context.Background(), inv.ID, UpdateStatusRequest{Status: ledger.StatusSent})
	require.NoError(t, err)

	n, err := svc.MarkOverdue(context.Background(), time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
