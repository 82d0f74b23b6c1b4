package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/bills"
	"github.com/ledgerdesk/ledgerdesk/internal/invoices"
	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
)

type fakeBillSource struct {
	bills []bills.Bill
	calls int
}

func (f *fakeBillSource) ListOutstanding(ctx context.Context) ([]bills.Bill, error) {
	f.calls++
	return f.bills, nil
}

type fakeInvoiceSource struct {
	invoices []invoices.Invoice
	calls    int
}

func (f *fakeInvoiceSource) List(ctx context.Context, req invoices.ListInvoicesRequest) ([]invoices.Invoice, int, error) {
	f.calls++
	return f.invoices, len(f.invoices), nil
}

func outstandingBill(vendorID uuid.UUID, vendorName string, due time.Time, balance int64) bills.Bill {
	return bills.Bill{
		ID:         uuid.New(),
		VendorID:   vendorID,
		VendorName: vendorName,
		DueDate:    due,
		BalanceDue: decimal.NewFromInt(balance),
		Status:     ledger.StatusOpen,
	}
}

func newTestService(t *testing.T, billSource BillSource, invoiceSource InvoiceSource) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(billSource, invoiceSource, NewCache(client, time.Minute))
	svc.WithNow(func() time.Time {
		return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	})
	return svc
}

func TestPayablesAgingBucketsByDueDate(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	acme := uuid.New()
	globex := uuid.New()
	source := &fakeBillSource{bills: []bills.Bill{
		outstandingBill(acme, "Acme Traders", asOf.AddDate(0, 0, 10), 500),
		outstandingBill(acme, "Acme Traders", asOf.AddDate(0, 0, -5), 300),
		outstandingBill(acme, "Acme Traders", asOf.AddDate(0, 0, -45), 200),
		outstandingBill(globex, "Globex Supplies", asOf.AddDate(0, 0, -100), 1000),
		outstandingBill(globex, "Globex Supplies", asOf.AddDate(0, 0, -150), 400),
	}}
	svc := newTestService(t, source, &fakeInvoiceSource{})

	report, err := svc.PayablesAging(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	require.True(t, report.Total.Equal(decimal.NewFromInt(2400)))

	acmeRow := report.Rows[0]
	require.Equal(t, "Acme Traders", acmeRow.VendorName)
	require.True(t, acmeRow.Current.Equal(decimal.NewFromInt(500)))
	require.True(t, acmeRow.Days1To30.Equal(decimal.NewFromInt(300)))
	require.True(t, acmeRow.Days31To60.Equal(decimal.NewFromInt(200)))
	require.True(t, acmeRow.Total.Equal(decimal.NewFromInt(1000)))

	globexRow := report.Rows[1]
	require.True(t, globexRow.Days91To120.Equal(decimal.NewFromInt(1000)))
	require.True(t, globexRow.Over120.Equal(decimal.NewFromInt(400)))
	require.True(t, globexRow.Total.Equal(decimal.NewFromInt(1400)))
}

func TestPayablesAgingCachesUntilBump(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	source := &fakeBillSource{bills: []bills.Bill{
		outstandingBill(uuid.New(), "Acme Traders", asOf.AddDate(0, 0, -5), 300),
	}}
	svc := newTestService(t, source, &fakeInvoiceSource{})

	ctx := context.Background()
	_, err := svc.PayablesAging(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)

	_, err = svc.PayablesAging(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls, "second call should hit the cache")

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.PayablesAging(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, source.calls, "bump should force recompute")
}

func TestDashboardAggregatesBothSides(t *testing.T) {
	asOf := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	overdueBill := outstandingBill(uuid.New(), "Acme Traders", asOf.AddDate(0, 0, -5), 300)
	overdueBill.Status = ledger.StatusOverdue
	billSource := &fakeBillSource{bills: []bills.Bill{
		overdueBill,
		outstandingBill(uuid.New(), "Globex Supplies", asOf.AddDate(0, 0, 10), 700),
	}}
	invoiceSource := &fakeInvoiceSource{invoices: []invoices.Invoice{
		{ID: uuid.New(), BalanceDue: decimal.NewFromInt(1180), Status: ledger.StatusOverdue},
		{ID: uuid.New(), BalanceDue: decimal.NewFromInt(500), Status: ledger.StatusPartiallyPaid},
		{ID: uuid.New(), BalanceDue: decimal.Zero, Status: ledger.StatusPaid},
	}}
	svc := newTestService(t, billSource, invoiceSource)

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.True(t, summary.TotalReceivables.Equal(decimal.NewFromInt(1680)))
	require.True(t, summary.TotalPayables.Equal(decimal.NewFromInt(1000)))
	require.Equal(t, 1, summary.OverdueInvoices)
	require.Equal(t, 1, summary.OverdueBills)
}
