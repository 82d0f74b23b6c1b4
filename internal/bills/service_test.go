package bills

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

type memoryBillRepo struct {
	bills map[uuid.UUID]Bill
	seq   int
}

func newMemoryBillRepo() *memoryBillRepo {
	return &memoryBillRepo{bills: make(map[uuid.UUID]Bill)}
}

func (r *memoryBillRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryBillRepo) List(ctx context.Context, req ListBillsRequest) ([]Bill, int, error) {
	var out []Bill
	for _, b := range r.bills {
		if req.Status != "" && b.Status != req.Status {
			continue
		}
		if req.VendorID != nil && b.VendorID != *req.VendorID {
			continue
		}
		if req.Search != "" && !strings.Contains(strings.ToLower(b.BillNumber+" "+b.VendorName), strings.ToLower(req.Search)) {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *memoryBillRepo) ListOutstanding(ctx context.Context) ([]Bill, error) {
	var out []Bill
	for _, b := range r.bills {
		if b.BalanceDue.IsPositive() && b.Status != ledger.StatusVoid {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryBillRepo) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, fmt.Errorf("bill: %w", httpx.ErrNotFound)
	}
	return &b, nil
}

func (r *memoryBillRepo) Create(ctx context.Context, b Bill) error {
	r.bills[b.ID] = b
	return nil
}

func (r *memoryBillRepo) Save(ctx context.Context, b Bill) error {
	if _, ok := r.bills[b.ID]; !ok {
		return fmt.Errorf("bill: %w", httpx.ErrNotFound)
	}
	r.bills[b.ID] = b
	return nil
}

func (r *memoryBillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.bills[id]; !ok {
		return fmt.Errorf("bill: %w", httpx.ErrNotFound)
	}
	delete(r.bills, id)
	return nil
}

func (r *memoryBillRepo) NextNumber(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("BILL-%05d", r.seq), nil
}

func (r *memoryBillRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	var n int64
	for id, b := range r.bills {
		if b.DueDate.Before(today) && b.BalanceDue.IsPositive() &&
			(b.Status == ledger.StatusOpen || b.Status == ledger.StatusSent || b.Status == ledger.StatusPartiallyPaid) {
			b.Status = ledger.StatusOverdue
			r.bills[id] = b
			n++
		}
	}
	return n, nil
}

var testClock = func() time.Time {
	return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
}

func newTestService() *Service {
	svc := NewService(newMemoryBillRepo())
	svc.WithNow(testClock)
	return svc
}

func createTestBill(t *testing.T, svc *Service) *Bill {
	t.Helper()
	b, err := svc.Create(context.Background(), CreateBillRequest{
		Date:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		VendorID:   uuid.New(),
		VendorName: "Sharma Supplies",
		TaxScheme:  ledger.TaxInterState,
		Items: []CreateBillItemRequest{
			{Details: "Raw material", Quantity: decimal.NewFromInt(5), Rate: decimal.NewFromInt(200), TaxPercent: decimal.NewFromInt(18)},
		},
	})
	require.NoError(t, err)
	return b
}

func TestCreateBillComputesTotals(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	require.Equal(t, "BILL-00001", b.BillNumber)
	require.True(t, b.SubTotal.Equal(decimal.NewFromInt(1000)))
	require.True(t, b.IGST.Equal(decimal.NewFromInt(180)))
	require.True(t, b.CGST.IsZero())
	require.True(t, b.Total.Equal(decimal.NewFromInt(1180)))
	require.Equal(t, ledger.StatusOpen, b.Status)
	require.True(t, ledger.Balanced(b.JournalEntries))
}

func TestBillPaymentAndMarkPaid(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	b, err := svc.RecordPayment(context.Background(), b.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(180),
	})
	require.NoError(t, err)
	require.Equal(t, ledger.StatusPartiallyPaid, b.Status)
	require.True(t, b.BalanceDue.Equal(decimal.NewFromInt(1000)))

	b, err = svc.MarkPaid(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusPaid, b.Status)
	require.True(t, b.BalanceDue.IsZero())
	require.Len(t, b.Payments, 2)

	_, err = svc.MarkPaid(context.Background(), b.ID)
	require.EqualError(t, err, "Bill is already fully paid")
}

func TestBillPaymentOverBalance(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	_, err := svc.RecordPayment(context.Background(), b.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(5000),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "Payment amount cannot exceed balance due of ₹1,180.00")
}

func TestApplyCreditReducesBalanceNotPaid(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	b, err := svc.ApplyCredit(context.Background(), b.ID, ApplyCreditRequest{
		Amount:           decimal.NewFromInt(200),
		CreditNoteNumber: "CN-001",
	})
	require.NoError(t, err)
	require.True(t, b.AmountPaid.IsZero())
	require.True(t, b.BalanceDue.Equal(decimal.NewFromInt(980)))

	_, err = svc.ApplyCredit(context.Background(), b.ID, ApplyCreditRequest{
		Amount: decimal.NewFromInt(1000),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestVoidBill(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	b, err := svc.Void(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusVoid, b.Status)

	_, err = svc.RecordPayment(context.Background(), b.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.EqualError(t, err, "Cannot record a payment on a void bill")
}

func TestVoidBillWithPayments(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	_, err := svc.RecordPayment(context.Background(), b.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = svc.Void(context.Background(), b.ID)
	require.EqualError(t, err, "Cannot void a bill with recorded payments")
}

func TestAllocateAndReleasePayment(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	billNumber, err := svc.AllocatePayment(context.Background(), b.ID, "PAY-00001", decimal.NewFromInt(400), testClock())
	require.NoError(t, err)
	require.Equal(t, b.BillNumber, billNumber)

	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, got.AmountPaid.Equal(decimal.NewFromInt(400)))
	require.Equal(t, ledger.StatusPartiallyPaid, got.Status)

	_, err = svc.AllocatePayment(context.Background(), b.ID, "PAY-00002", decimal.NewFromInt(900), testClock())
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.ReleaseAllocation(context.Background(), b.ID, "PAY-00001")
	require.NoError(t, err)

	got, err = svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, got.AmountPaid.IsZero())
	require.True(t, got.BalanceDue.Equal(got.Total))
	require.Empty(t, got.Payments)
}

func TestBillJournalFallback(t *testing.T) {
	svc := newTestService()
	b := createTestBill(t, svc)

	rows, err := svc.Journal(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, ledger.Balanced(rows))
	last := rows[len(rows)-1]
	require.Equal(t, "Accounts Payable", last.Account)
	require.True(t, last.Credit.Equal(b.Total))
}
