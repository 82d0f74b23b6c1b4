package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// OverdueMarker flips documents past their due date to OVERDUE and reports
// how many rows changed. Both the invoice and bill services satisfy it.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

// ReportInvalidator drops cached reports after the scan mutates statuses.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// OverdueScanJob sweeps invoices and bills whose due date has passed.
type OverdueScanJob struct {
	Invoices OverdueMarker
	Bills    OverdueMarker
	Reports  ReportInvalidator
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(invoices, bills OverdueMarker, reports ReportInvalidator, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{
		Invoices: invoices,
		Bills:    bills,
		Reports:  reports,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the overdue scan.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = j.now()
	}

	logger := j.logger().With(slog.Time("as_of", asOf))
	logger.Info("starting overdue scan")
	start := j.now()

	var invoiceCount, billCount int64
	var err error
	if j.Invoices != nil {
		if invoiceCount, err = j.Invoices.MarkOverdue(ctx, asOf); err != nil {
			logger.Error("invoice scan failed", slog.Any("error", err))
			return err
		}
	}
	if j.Bills != nil {
		if billCount, err = j.Bills.MarkOverdue(ctx, asOf); err != nil {
			logger.Error("bill scan failed", slog.Any("error", err))
			return err
		}
	}

	if j.Reports != nil && invoiceCount+billCount > 0 {
		if err := j.Reports.Invalidate(ctx); err != nil {
			logger.Warn("report cache invalidation failed", slog.Any("error", err))
		}
	}

	logger.Info("completed overdue scan",
		slog.Int64("invoices_marked", invoiceCount),
		slog.Int64("bills_marked", billCount),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskOverdueScan))
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
