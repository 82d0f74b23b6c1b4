package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

type memoryPaymentRepo struct {
	payments  map[uuid.UUID]Payment
	seq       int
	createErr error
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{payments: make(map[uuid.UUID]Payment)}
}

func (r *memoryPaymentRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryPaymentRepo) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	var out []Payment
	for _, p := range r.payments {
		if req.VendorID != nil && p.VendorID != *req.VendorID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memoryPaymentRepo) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment: %w", httpx.ErrNotFound)
	}
	return &p, nil
}

func (r *memoryPaymentRepo) Create(ctx context.Context, p Payment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.payments[p.ID] = p
	return nil
}

func (r *memoryPaymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.payments[id]; !ok {
		return fmt.Errorf("payment: %w", httpx.ErrNotFound)
	}
	delete(r.payments, id)
	return nil
}

func (r *memoryPaymentRepo) NextNumber(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("PAY-%05d", r.seq), nil
}

func (r *memoryPaymentRepo) PeekNumber(ctx context.Context) (string, error) {
	return fmt.Sprintf("PAY-%05d", r.seq+1), nil
}

// fakeAllocator tracks per-bill balances and applied allocations; releasing
// an allocation restores the bill balance like the bills service does.
type fakeAllocator struct {
	balances    map[uuid.UUID]decimal.Decimal
	numbers     map[uuid.UUID]string
	allocations map[string]map[uuid.UUID]decimal.Decimal
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{
		balances:    make(map[uuid.UUID]decimal.Decimal),
		numbers:     make(map[uuid.UUID]string),
		allocations: make(map[string]map[uuid.UUID]decimal.Decimal),
	}
}

func (f *fakeAllocator) addBill(number string, balance decimal.Decimal) uuid.UUID {
	id := uuid.New()
	f.balances[id] = balance
	f.numbers[id] = number
	return id
}

func (f *fakeAllocator) AllocatePayment(ctx context.Context, billID uuid.UUID, reference string, amount decimal.Decimal, date time.Time) (string, error) {
	balance, ok := f.balances[billID]
	if !ok {
		return "", fmt.Errorf("bill: %w", httpx.ErrNotFound)
	}
	if amount.GreaterThan(balance) {
		return "", httpx.Invalid(fmt.Sprintf("Allocation to bill %s cannot exceed its balance due", f.numbers[billID]))
	}
	f.balances[billID] = balance.Sub(amount)
	if f.allocations[reference] == nil {
		f.allocations[reference] = make(map[uuid.UUID]decimal.Decimal)
	}
	f.allocations[reference][billID] = amount
	return f.numbers[billID], nil
}

func (f *fakeAllocator) ReleaseAllocation(ctx context.Context, billID uuid.UUID, reference string) error {
	amount, ok := f.allocations[reference][billID]
	if !ok {
		return nil
	}
	f.balances[billID] = f.balances[billID].Add(amount)
	delete(f.allocations[reference], billID)
	return nil
}

func newTestService(allocator *fakeAllocator) *Service {
	svc := NewService(newMemoryPaymentRepo(), allocator)
	svc.WithNow(func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	})
	return svc
}

func TestCreatePaymentWithAllocations(t *testing.T) {
	allocator := newFakeAllocator()
	bill1 := allocator.addBill("BILL-00001", decimal.NewFromInt(600))
	bill2 := allocator.addBill("BILL-00002", decimal.NewFromInt(400))
	svc := newTestService(allocator)

	p, err := svc.Create(context.Background(), CreatePaymentRequest{
		Date:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		VendorID:   uuid.New(),
		VendorName: "Sharma Supplies",
		Amount:     decimal.NewFromInt(1000),
		BillPayments: []BillPaymentRequest{
			{BillID: bill1, Amount: decimal.NewFromInt(600)},
			{BillID: bill2, Amount: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "PAY-00001", p.PaymentNumber)
	require.True(t, p.UnusedAmount.Equal(decimal.NewFromInt(100)))
	require.Len(t, p.BillPayments, 2)
	require.Equal(t, "BILL-00001", p.BillPayments[0].BillNumber)
	require.Equal(t, "Indian Rupee One Thousand Only", p.AmountInWords)
	require.True(t, allocator.balances[bill2].Equal(decimal.NewFromInt(100)))
}

func TestCreatePaymentOverAllocated(t *testing.T) {
	allocator := newFakeAllocator()
	bill := allocator.addBill("BILL-00001", decimal.NewFromInt(600))
	svc := newTestService(allocator)

	_, err := svc.Create(context.Background(), CreatePaymentRequest{
		Date:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		VendorID:   uuid.New(),
		VendorName: "Sharma Supplies",
		Amount:     decimal.NewFromInt(500),
		BillPayments: []BillPaymentRequest{
			{BillID: bill, Amount: decimal.NewFromInt(600)},
		},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "Total allocation cannot exceed the payment amount")
}

func TestCreatePaymentAllocationExceedsBillBalance(t *testing.T) {
	allocator := newFakeAllocator()
	bill1 := allocator.addBill("BILL-00001", decimal.NewFromInt(600))
	bill2 := allocator.addBill("BILL-00002", decimal.NewFromInt(100))
	svc := newTestService(allocator)

	_, err := svc.Create(context.Background(), CreatePaymentRequest{
		Date:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		VendorID:   uuid.New(),
		VendorName: "Sharma Supplies",
		Amount:     decimal.NewFromInt(900),
		BillPayments: []BillPaymentRequest{
			{BillID: bill1, Amount: decimal.NewFromInt(600)},
			{BillID: bill2, Amount: decimal.NewFromInt(300)},
		},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	// The allocation applied before the failure is released.
	require.Empty(t, allocator.allocations["PAY-00001"])
	require.True(t, allocator.balances[bill1].Equal(decimal.NewFromInt(600)))
}

func TestCreatePaymentInsertFailureReleasesAllocations(t *testing.T) {
	allocator := newFakeAllocator()
	bill := allocator.addBill("BILL-00001", decimal.NewFromInt(600))
	repo := newMemoryPaymentRepo()
	repo.createErr = errors.New("insert failed")
	svc := NewService(repo, allocator)

	_, err := svc.Create(context.Background(), CreatePaymentRequest{
		Date:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		VendorID:   uuid.New(),
		VendorName: "Sharma Supplies",
		Amount:     decimal.NewFromInt(600),
		BillPayments: []BillPaymentRequest{
			{BillID: bill, Amount: decimal.NewFromInt(600)},
		},
	})
	require.Error(t, err)
	require.Empty(t, allocator.allocations["PAY-00001"])
	require.True(t, allocator.balances[bill].Equal(decimal.NewFromInt(600)),
		"bill balance should be restored after payment insert failure")
	require.Empty(t, repo.payments)
}

func TestDeletePaymentReversesAllocations(t *testing.T) {
	allocator := newFakeAllocator()
	bill := allocator.addBill("BILL-00001", decimal.NewFromInt(600))
	svc := newTestService(allocator)

	p, err := svc.Create(context.Background(), CreatePaymentRequest{
		Date:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		VendorID:   uuid.New(),
		VendorName: "Sharma Supplies",
		Amount:     decimal.NewFromInt(600),
		BillPayments: []BillPaymentRequest{
			{BillID: bill, Amount: decimal.NewFromInt(600)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	require.Empty(t, allocator.allocations[p.PaymentNumber])

	_, err = svc.Get(context.Background(), p.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestNextNumberPeekDoesNotConsume(t *testing.T) {
	allocator := newFakeAllocator()
	svc := newTestService(allocator)

	number, err := svc.NextNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, "PAY-00001", number)

	number, err = svc.NextNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, "PAY-00001", number)
}
