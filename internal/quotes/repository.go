package quotes

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
	List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Quote, error)
	Create(ctx context.Context, q Quote) error
	Save(ctx context.Context, q Quote) error
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

const quoteColumns = `id, quote_number, reference_number, date, expiry_date,
	customer_id, customer_name, billing_address, salesperson, tax_scheme,
	items, sub_total, shipping_charges, cgst, sgst, igst, tax_amount,
	adjustment, total, status, activity_logs, customer_notes, terms, created_at, updated_at`

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	var billing, items, logs []byte
	err := row.Scan(&q.ID, &q.QuoteNumber, &q.ReferenceNumber, &q.Date,
		&q.ExpiryDate, &q.CustomerID, &q.CustomerName, &billing,
		&q.Salesperson, &q.TaxScheme, &items, &q.SubTotal, &q.ShippingCharges,
		&q.CGST, &q.SGST, &q.IGST, &q.TaxAmount, &q.Adjustment, &q.Total, &q.Status, &logs,
		&q.CustomerNotes, &q.Terms, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	for _, pair := range []struct {
		raw  []byte
		dest any
	}{
		{billing, &q.BillingAddress},
		{items, &q.Items},
		{logs, &q.ActivityLogs},
	} {
		if err := db.UnmarshalJSONB(pair.raw, pair.dest); err != nil {
			return nil, err
		}
	}
	return &q, nil
}

func (r *repository) List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
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
		where += fmt.Sprintf(" AND (quote_number ILIKE $%d OR customer_name ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM quotes "+where, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf("SELECT %s FROM quotes %s ORDER BY date DESC, quote_number DESC LIMIT $%d OFFSET $%d",
		quoteColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *q)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM quotes WHERE id = $1", quoteColumns), id)
	return scanQuote(row)
}

func (r *repository) Create(ctx context.Context, q Quote) error {
	args, err := quoteArgs(q)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO quotes (`+quoteColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25)`,
		args...)
	return err
}

func (r *repository) Save(ctx context.Context, q Quote) error {
	logs, err := db.MarshalJSONB(q.ActivityLogs)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE quotes SET status=$2, activity_logs=$3, updated_at=$4
		WHERE id = $1`,
		q.ID, q.Status, logs, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM quotes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT nextval('quote_number_seq')").Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%05d", n), nil
}

func quoteArgs(q Quote) ([]any, error) {
	billing, err := db.MarshalJSONB(q.BillingAddress)
	if err != nil {
		return nil, err
	}
	items, err := db.MarshalJSONB(q.Items)
	if err != nil {
		return nil, err
	}
	logs, err := db.MarshalJSONB(q.ActivityLogs)
	if err != nil {
		return nil, err
	}
	return []any{q.ID, q.QuoteNumber, q.ReferenceNumber, q.Date, q.ExpiryDate,
		q.CustomerID, q.CustomerName, billing, q.Salesperson, q.TaxScheme,
		items, q.SubTotal, q.ShippingCharges, q.CGST, q.SGST, q.IGST,
		q.TaxAmount, q.Adjustment, q.Total, q.Status, logs, q.CustomerNotes, q.Terms,
		q.CreatedAt, q.UpdatedAt}, nil
}
