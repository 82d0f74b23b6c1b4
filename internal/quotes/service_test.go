package quotes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

type memoryQuoteRepo struct {
	quotes map[uuid.UUID]Quote
	seq    int
}

func newMemoryQuoteRepo() *memoryQuoteRepo {
	return &memoryQuoteRepo{quotes: make(map[uuid.UUID]Quote)}
}

func (r *memoryQuoteRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryQuoteRepo) List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	var out []Quote
	for _, q := range r.quotes {
		if req.Status != "" && q.Status != req.Status {
			continue
		}
		out = append(out, q)
	}
	return out, len(out), nil
}

func (r *memoryQuoteRepo) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return nil, fmt.Errorf("quote: %w", httpx.ErrNotFound)
	}
	return &q, nil
}

func (r *memoryQuoteRepo) Create(ctx context.Context, q Quote) error {
	r.quotes[q.ID] = q
	return nil
}

func (r *memoryQuoteRepo) Save(ctx context.Context, q Quote) error {
	if _, ok := r.quotes[q.ID]; !ok {
		return fmt.Errorf("quote: %w", httpx.ErrNotFound)
	}
	r.quotes[q.ID] = q
	return nil
}

func (r *memoryQuoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.quotes[id]; !ok {
		return fmt.Errorf("quote: %w", httpx.ErrNotFound)
	}
	delete(r.quotes, id)
	return nil
}

func (r *memoryQuoteRepo) NextNumber(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("QT-%05d", r.seq), nil
}

func newTestService() *Service {
	svc := NewService(newMemoryQuoteRepo())
	svc.WithNow(func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	})
	return svc
}

func createTestQuote(t *testing.T, svc *Service) *Quote {
	t.Helper()
	q, err := svc.Create(context.Background(), CreateQuoteRequest{
		Date:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:   uuid.New(),
		CustomerName: "Orbit Retail",
		TaxScheme:    ledger.TaxFlat,
		Items: []CreateQuoteItemRequest{
			{Details: "Installation", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(5000), TaxPercent: decimal.NewFromInt(18)},
		},
	})
	require.NoError(t, err)
	return q
}

func TestCreateQuote(t *testing.T) {
	svc := newTestService()
	q := createTestQuote(t, svc)

	require.Equal(t, "QT-00001", q.QuoteNumber)
	require.Equal(t, ledger.StatusDraft, q.Status)
	require.True(t, q.SubTotal.Equal(decimal.NewFromInt(5000)))
	// Flat scheme keeps the tax unsplit: no bucket is populated.
	require.True(t, q.CGST.IsZero())
	require.True(t, q.IGST.IsZero())
	require.True(t, q.TaxAmount.Equal(decimal.NewFromInt(900)))
	require.True(t, q.Total.Equal(decimal.NewFromInt(5900)))
}

func TestQuoteLifecycle(t *testing.T) {
	svc := newTestService()
	q := createTestQuote(t, svc)

	for _, status := range []ledger.Status{
		ledger.StatusPendingApproval,
		ledger.StatusApproved,
		ledger.StatusSent,
		ledger.StatusCustomerViewed,
		ledger.StatusAccepted,
		ledger.StatusInvoiced,
	} {
		var err error
		q, err = svc.UpdateStatus(context.Background(), q.ID, UpdateStatusRequest{Status: status})
		require.NoError(t, err, "transition to %s", status)
		require.Equal(t, status, q.Status)
	}
}

func TestQuoteInvalidTransition(t *testing.T) {
	svc := newTestService()
	q := createTestQuote(t, svc)

	_, err := svc.UpdateStatus(context.Background(), q.ID, UpdateStatusRequest{Status: ledger.StatusAccepted})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "Cannot move quote from DRAFT to ACCEPTED")
}

func TestQuoteDeclinedIsTerminal(t *testing.T) {
	svc := newTestService()
	q := createTestQuote(t, svc)

	var err error
	for _, status := range []ledger.Status{ledger.StatusSent, ledger.StatusDeclined} {
		q, err = svc.UpdateStatus(context.Background(), q.ID, UpdateStatusRequest{Status: status})
		require.NoError(t, err)
	}

	_, err = svc.UpdateStatus(context.Background(), q.ID, UpdateStatusRequest{Status: ledger.StatusSent})
	require.EqualError(t, err, "Cannot change status of a DECLINED quote")
}

func TestDeleteInvoicedQuote(t *testing.T) {
	svc := newTestService()
	q := createTestQuote(t, svc)

	var err error
	for _, status := range []ledger.Status{ledger.StatusSent, ledger.StatusAccepted, ledger.StatusInvoiced} {
		q, err = svc.UpdateStatus(context.Background(), q.ID, UpdateStatusRequest{Status: status})
		require.NoError(t, err)
	}

	err = svc.Delete(context.Background(), q.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
}
