package salesorders

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
	List(ctx context.Context, req ListOrdersRequest) ([]SalesOrder, int, error)
	Get(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	Create(ctx context.Context, o SalesOrder) error
	Save(ctx context.Context, o SalesOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextNumber(ctx context.Context) (string, error)
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

const orderColumns = `id, order_number, reference_number, date,
	expected_shipment_date, customer_id, customer_name, billing_address,
	shipping_address, payment_terms, tax_scheme, items, sub_total,
	shipping_charges, cgst, sgst, igst, tax_amount, adjustment, total, status,
	invoice_numbers, activity_logs, customer_notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*SalesOrder, error) {
	var o SalesOrder
	var billing, shipping, items, numbers, logs []byte
	err := row.Scan(&o.ID, &o.OrderNumber, &o.ReferenceNumber, &o.Date,
		&o.ExpectedShipmentDate, &o.CustomerID, &o.CustomerName, &billing,
		&shipping, &o.PaymentTerms, &o.TaxScheme, &items, &o.SubTotal,
		&o.ShippingCharges, &o.CGST, &o.SGST, &o.IGST, &o.TaxAmount, &o.Adjustment,
		&o.Total, &o.Status, &numbers, &logs, &o.CustomerNotes, &o.CreatedAt,
		&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sales order: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	for _, pair := range []struct {
		raw  []byte
		dest any
	}{
		{billing, &o.BillingAddress},
		{shipping, &o.ShippingAddress},
		{items, &o.Items},
		{numbers, &o.InvoiceNumbers},
		{logs, &o.ActivityLogs},
	} {
		if err := db.UnmarshalJSONB(pair.raw, pair.dest); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]SalesOrder, int, error) {
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
		where += fmt.Sprintf(" AND (order_number ILIKE $%d OR customer_name ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM sales_orders "+where, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf("SELECT %s FROM sales_orders %s ORDER BY date DESC, order_number DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []SalesOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*SalesOrder, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM sales_orders WHERE id = $1", orderColumns), id)
	return scanOrder(row)
}

func (r *repository) Create(ctx context.Context, o SalesOrder) error {
	args, err := orderArgs(o)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO sales_orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25,$26)`,
		args...)
	return err
}

func (r *repository) Save(ctx context.Context, o SalesOrder) error {
	items, err := db.MarshalJSONB(o.Items)
	if err != nil {
		return err
	}
	numbers, err := db.MarshalJSONB(o.InvoiceNumbers)
	if err != nil {
		return err
	}
	logs, err := db.MarshalJSONB(o.ActivityLogs)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE sales_orders SET items=$2, status=$3, invoice_numbers=$4,
			activity_logs=$5, updated_at=$6
		WHERE id = $1`,
		o.ID, items, o.Status, numbers, logs, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sales order: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM sales_orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sales order: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT nextval('sales_order_number_seq')").Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("SO-%05d", n), nil
}

func orderArgs(o SalesOrder) ([]any, error) {
	billing, err := db.MarshalJSONB(o.BillingAddress)
	if err != nil {
		return nil, err
	}
	shipping, err := db.MarshalJSONB(o.ShippingAddress)
	if err != nil {
		return nil, err
	}
	items, err := db.MarshalJSONB(o.Items)
	if err != nil {
		return nil, err
	}
	numbers, err := db.MarshalJSONB(o.InvoiceNumbers)
	if err != nil {
		return nil, err
	}
	logs, err := db.MarshalJSONB(o.ActivityLogs)
	if err != nil {
		return nil, err
	}
	return []any{o.ID, o.OrderNumber, o.ReferenceNumber, o.Date,
		o.ExpectedShipmentDate, o.CustomerID, o.CustomerName, billing,
		shipping, o.PaymentTerms, o.TaxScheme, items, o.SubTotal,
		o.ShippingCharges, o.CGST, o.SGST, o.IGST, o.TaxAmount, o.Adjustment, o.Total,
		o.Status, numbers, logs, o.CustomerNotes, o.CreatedAt,
		o.UpdatedAt}, nil
}
