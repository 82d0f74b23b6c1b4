// Package reports computes read-only aggregates over the document stores:
// the payables aging schedule and the dashboard summary.
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerdesk/ledgerdesk/internal/bills"
	"github.com/ledgerdesk/ledgerdesk/internal/invoices"
	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
)

// BillSource supplies the outstanding bills the aging schedule buckets.
type BillSource interface {
	ListOutstanding(ctx context.Context) ([]bills.Bill, error)
}

// InvoiceSource supplies invoices for the dashboard summary.
type InvoiceSource interface {
	List(ctx context.Context, req invoices.ListInvoicesRequest) ([]invoices.Invoice, int, error)
}

// AgingRow is one vendor's outstanding balance bucketed by days overdue.
type AgingRow struct {
	VendorID    uuid.UUID       `json:"vendorId"`
	VendorName  string          `json:"vendorName"`
	Current     decimal.Decimal `json:"current"`
	Days1To30   decimal.Decimal `json:"days1to30"`
	Days31To60  decimal.Decimal `json:"days31to60"`
	Days61To90  decimal.Decimal `json:"days61to90"`
	Days91To120 decimal.Decimal `json:"days91to120"`
	Over120     decimal.Decimal `json:"over120"`
	Total       decimal.Decimal `json:"total"`
}

// AgingReport is the payables aging schedule as of a date.
type AgingReport struct {
	AsOf  time.Time       `json:"asOf"`
	Rows  []AgingRow      `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// DashboardSummary aggregates the headline figures.
type DashboardSummary struct {
	TotalReceivables decimal.Decimal `json:"totalReceivables"`
	TotalPayables    decimal.Decimal `json:"totalPayables"`
	OverdueInvoices  int             `json:"overdueInvoices"`
	OverdueBills     int             `json:"overdueBills"`
}

type Service struct {
	billSource    BillSource
	invoiceSource InvoiceSource
	cache         *Cache
	now           func() time.Time
}

func NewService(billSource BillSource, invoiceSource InvoiceSource, cache *Cache) *Service {
	return &Service{
		billSource:    billSource,
		invoiceSource: invoiceSource,
		cache:         cache,
		now:           time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// PayablesAging buckets every outstanding bill into the aging schedule.
// Results are cached per day; a version bump invalidates them.
func (s *Service) PayablesAging(ctx context.Context) (*AgingReport, error) {
	asOf := s.now()
	key, err := s.cache.BuildKey(ctx, "reports", "payables_aging", asOf.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	var report AgingReport
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (any, error) {
		return s.computeAging(ctx, asOf)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Service) computeAging(ctx context.Context, asOf time.Time) (*AgingReport, error) {
	outstanding, err := s.billSource.ListOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	byVendor := make(map[uuid.UUID]*AgingRow)
	report := AgingReport{AsOf: asOf}
	for _, b := range outstanding {
		row, ok := byVendor[b.VendorID]
		if !ok {
			row = &AgingRow{VendorID: b.VendorID, VendorName: b.VendorName}
			byVendor[b.VendorID] = row
		}
		overdueDays := int(asOf.Sub(b.DueDate).Hours() / 24)
		amount := b.BalanceDue
		switch {
		case overdueDays <= 0:
			row.Current = row.Current.Add(amount)
		case overdueDays <= 30:
			row.Days1To30 = row.Days1To30.Add(amount)
		case overdueDays <= 60:
			row.Days31To60 = row.Days31To60.Add(amount)
		case overdueDays <= 90:
			row.Days61To90 = row.Days61To90.Add(amount)
		case overdueDays <= 120:
			row.Days91To120 = row.Days91To120.Add(amount)
		default:
			row.Over120 = row.Over120.Add(amount)
		}
		row.Total = row.Total.Add(amount)
		report.Total = report.Total.Add(amount)
	}

	report.Rows = make([]AgingRow, 0, len(byVendor))
	for _, row := range byVendor {
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].VendorName < report.Rows[j].VendorName
	})
	return &report, nil
}

// Dashboard fans out over both document stores and aggregates the headline
// receivable and payable positions.
func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		const perPage = 1000
		for page := 1; ; page++ {
			list, total, err := s.invoiceSource.List(ctx, invoices.ListInvoicesRequest{Page: page, PerPage: perPage})
			if err != nil {
				return err
			}
			for _, inv := range list {
				summary.TotalReceivables = summary.TotalReceivables.Add(inv.BalanceDue)
				if inv.Status == ledger.StatusOverdue {
					summary.OverdueInvoices++
				}
			}
			if len(list) < perPage || page*perPage >= total {
				return nil
			}
		}
	})
	g.Go(func() error {
		outstanding, err := s.billSource.ListOutstanding(ctx)
		if err != nil {
			return err
		}
		for _, b := range outstanding {
			summary.TotalPayables = summary.TotalPayables.Add(b.BalanceDue)
			if b.Status == ledger.StatusOverdue {
				summary.OverdueBills++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Invalidate drops cached reports after document mutations.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
