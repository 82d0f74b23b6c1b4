package bills

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/db"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, req ListBillsRequest) ([]Bill, int, error)
	ListOutstanding(ctx context.Context) ([]Bill, error)
	Get(ctx context.Context, id uuid.UUID) (*Bill, error)
	Create(ctx context.Context, b Bill) error
	Save(ctx context.Context, b Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextNumber(ctx context.Context) (string, error)
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const billColumns = `id, bill_number, order_number, date, due_date, vendor_id,
	vendor_name, vendor_address, source_of_supply, payment_terms, tax_scheme,
	items, sub_total, shipping_charges, cgst, sgst, igst, tax_amount,
	adjustment, total, amount_paid, balance_due, status, credits_applied, payments,
	journal_entries, activity_logs, notes, created_at, updated_at`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	var address, items, credits, payments, journal, logs []byte
	err := row.Scan(&b.ID, &b.BillNumber, &b.OrderNumber, &b.Date, &b.DueDate,
		&b.VendorID, &b.VendorName, &address, &b.SourceOfSupply,
		&b.PaymentTerms, &b.TaxScheme, &items, &b.SubTotal, &b.ShippingCharges,
		&b.CGST, &b.SGST, &b.IGST, &b.TaxAmount, &b.Adjustment, &b.Total, &b.AmountPaid,
		&b.BalanceDue, &b.Status, &credits, &payments, &journal, &logs,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	for _, pair := range []struct {
		raw  []byte
		dest any
	}{
		{address, &b.VendorAddress},
		{items, &b.Items},
		{credits, &b.CreditsApplied},
		{payments, &b.Payments},
		{journal, &b.JournalEntries},
		{logs, &b.ActivityLogs},
	} {
		if err := db.UnmarshalJSONB(pair.raw, pair.dest); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, req ListBillsRequest) ([]Bill, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if req.Status != "" {
		args = append(args, req.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if req.VendorID != nil {
		args = append(args, *req.VendorID)
		where += fmt.Sprintf(" AND vendor_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (bill_number ILIKE $%d OR vendor_name ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM bills "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf("SELECT %s FROM bills %s ORDER BY date DESC, bill_number DESC LIMIT $%d OFFSET $%d",
		billColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, rows.Err()
}

// ListOutstanding returns every bill with a positive balance, for the
// payables aging report.
func (r *repository) ListOutstanding(ctx context.Context) ([]Bill, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM bills WHERE balance_due > 0 AND status <> 'VOID' ORDER BY due_date", billColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM bills WHERE id = $1", billColumns), id)
	return scanBill(row)
}

func (r *repository) Create(ctx context.Context, b Bill) error {
	args, err := billArgs(b)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO bills (`+billColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)`,
		args...)
	return err
}

func (r *repository) Save(ctx context.Context, b Bill) error {
	items, err := db.MarshalJSONB(b.Items)
	if err != nil {
		return err
	}
	credits, err := db.MarshalJSONB(b.CreditsApplied)
	if err != nil {
		return err
	}
	payments, err := db.MarshalJSONB(b.Payments)
	if err != nil {
		return err
	}
	journal, err := db.MarshalJSONB(b.JournalEntries)
	if err != nil {
		return err
	}
	logs, err := db.MarshalJSONB(b.ActivityLogs)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE bills SET items=$2, sub_total=$3, shipping_charges=$4, cgst=$5,
			sgst=$6, igst=$7, tax_amount=$8, adjustment=$9, total=$10,
			amount_paid=$11, balance_due=$12, status=$13, credits_applied=$14,
			payments=$15, journal_entries=$16, activity_logs=$17, updated_at=$18
		WHERE id = $1`,
		b.ID, items, b.SubTotal, b.ShippingCharges, b.CGST, b.SGST, b.IGST,
		b.TaxAmount, b.Adjustment, b.Total, b.AmountPaid, b.BalanceDue,
		b.Status, credits, payments, journal, logs, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bill: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM bills WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bill: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT nextval('bill_number_seq')").Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("BILL-%05d", n), nil
}

func (r *repository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bills SET status='OVERDUE', updated_at=$2
		WHERE due_date < $1 AND balance_due > 0
		  AND status IN ('OPEN','SENT','PARTIALLY_PAID')`,
		today, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func billArgs(b Bill) ([]any, error) {
	address, err := db.MarshalJSONB(b.VendorAddress)
	if err != nil {
		return nil, err
	}
	items, err := db.MarshalJSONB(b.Items)
	if err != nil {
		return nil, err
	}
	credits, err := db.MarshalJSONB(b.CreditsApplied)
	if err != nil {
		return nil, err
	}
	payments, err := db.MarshalJSONB(b.Payments)
	if err != nil {
		return nil, err
	}
	journal, err := db.MarshalJSONB(b.JournalEntries)
	if err != nil {
		return nil, err
	}
	logs, err := db.MarshalJSONB(b.ActivityLogs)
	if err != nil {
		return nil, err
	}
	return []any{b.ID, b.BillNumber, b.OrderNumber, b.Date, b.DueDate,
		b.VendorID, b.VendorName, address, b.SourceOfSupply, b.PaymentTerms,
		b.TaxScheme, items, b.SubTotal, b.ShippingCharges, b.CGST, b.SGST,
		b.IGST, b.TaxAmount, b.Adjustment, b.Total, b.AmountPaid, b.BalanceDue, b.Status,
		credits, payments, journal, logs, b.Notes, b.CreatedAt,
		b.UpdatedAt}, nil
}
