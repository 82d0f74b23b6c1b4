package invoices

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
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Create(ctx context.Context, inv Invoice) error
	Save(ctx context.Context, inv Invoice) error
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

const invoiceColumns = `id, invoice_number, reference_number, date, due_date,
	customer_id, customer_name, billing_address, shipping_address,
	place_of_supply, salesperson, payment_terms, tax_scheme, items, sub_total,
	shipping_charges, cgst, sgst, igst, tax_amount, adjustment, total, amount_paid,
	amount_refunded, balance_due, status, source_type, source_number,
	payments, refunds, activity_logs, customer_notes, terms, created_at,
	updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var billing, shipping, items, payments, refunds, logs []byte
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ReferenceNumber,
		&inv.Date, &inv.DueDate, &inv.CustomerID, &inv.CustomerName, &billing,
		&shipping, &inv.PlaceOfSupply, &inv.Salesperson, &inv.PaymentTerms,
		&inv.TaxScheme, &items, &inv.SubTotal, &inv.ShippingCharges, &inv.CGST,
		&inv.SGST, &inv.IGST, &inv.TaxAmount, &inv.Adjustment, &inv.Total, &inv.AmountPaid,
		&inv.AmountRefunded, &inv.BalanceDue, &inv.Status, &inv.SourceType,
		&inv.SourceNumber, &payments, &refunds, &logs, &inv.CustomerNotes,
		&inv.Terms, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	for _, pair := range []struct {
		raw  []byte
		dest any
	}{
		{billing, &inv.BillingAddress},
		{shipping, &inv.ShippingAddress},
		{items, &inv.Items},
		{payments, &inv.Payments},
		{refunds, &inv.Refunds},
		{logs, &inv.ActivityLogs},
	} {
		if err := db.UnmarshalJSONB(pair.raw, pair.dest); err != nil {
			return nil, err
		}
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if req.Status != "" {
		args = append(args, req.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if req.CustomerID != nil {
		args = append(args, *req.CustomerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (invoice_number ILIKE $%d OR customer_name ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+where, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf("SELECT %s FROM invoices %s ORDER BY date DESC, invoice_number DESC LIMIT $%d OFFSET $%d",
		invoiceColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inv)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM invoices WHERE id = $1", invoiceColumns), id)
	return scanInvoice(row)
}

func (r *repository) Create(ctx context.Context, inv Invoice) error {
	args, err := invoiceArgs(inv)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35)`,
		args...)
	return err
}

func (r *repository) Save(ctx context.Context, inv Invoice) error {
	items, err := db.MarshalJSONB(inv.Items)
	if err != nil {
		return err
	}
	payments, err := db.MarshalJSONB(inv.Payments)
	if err != nil {
		return err
	}
	refunds, err := db.MarshalJSONB(inv.Refunds)
	if err != nil {
		return err
	}
	logs, err := db.MarshalJSONB(inv.ActivityLogs)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE invoices SET items=$2, sub_total=$3, shipping_charges=$4,
			cgst=$5, sgst=$6, igst=$7, tax_amount=$8, adjustment=$9, total=$10,
			amount_paid=$11, amount_refunded=$12, balance_due=$13, status=$14,
			payments=$15, refunds=$16, activity_logs=$17, updated_at=$18
		WHERE id = $1`,
		inv.ID, items, inv.SubTotal, inv.ShippingCharges, inv.CGST, inv.SGST,
		inv.IGST, inv.TaxAmount, inv.Adjustment, inv.Total, inv.AmountPaid,
		inv.AmountRefunded, inv.BalanceDue, inv.Status, payments, refunds,
		logs, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT nextval('invoice_number_seq')").Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%05d", n), nil
}

// MarkOverdue flips sent or partly paid invoices past their due date to
// OVERDUE and returns how many rows changed.
func (r *repository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE invoices SET status='OVERDUE', updated_at=$2
		WHERE due_date < $1 AND balance_due > 0
		  AND status IN ('OPEN','SENT','PARTIALLY_PAID')`,
		today, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func invoiceArgs(inv Invoice) ([]any, error) {
	billing, err := db.MarshalJSONB(inv.BillingAddress)
	if err != nil {
		return nil, err
	}
	shipping, err := db.MarshalJSONB(inv.ShippingAddress)
	if err != nil {
		return nil, err
	}
	items, err := db.MarshalJSONB(inv.Items)
	if err != nil {
		return nil, err
	}
	payments, err := db.MarshalJSONB(inv.Payments)
	if err != nil {
		return nil, err
	}
	refunds, err := db.MarshalJSONB(inv.Refunds)
	if err != nil {
		return nil, err
	}
	logs, err := db.MarshalJSONB(inv.ActivityLogs)
	if err != nil {
		return nil, err
	}
	return []any{inv.ID, inv.InvoiceNumber, inv.ReferenceNumber, inv.Date,
		inv.DueDate, inv.CustomerID, inv.CustomerName, billing, shipping,
		inv.PlaceOfSupply, inv.Salesperson, inv.PaymentTerms, inv.TaxScheme,
		items, inv.SubTotal, inv.ShippingCharges, inv.CGST, inv.SGST, inv.IGST,
		inv.TaxAmount, inv.Adjustment, inv.Total, inv.AmountPaid, inv.AmountRefunded,
		inv.BalanceDue, inv.Status, inv.SourceType, inv.SourceNumber, payments,
		refunds, logs, inv.CustomerNotes, inv.Terms, inv.CreatedAt,
		inv.UpdatedAt}, nil
}
