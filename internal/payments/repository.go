package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/db"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Payment, error)
	Create(ctx context.Context, p Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextNumber(ctx context.Context) (string, error)
	PeekNumber(ctx context.Context) (string, error)
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

const paymentColumns = `id, payment_number, date, vendor_id, vendor_name,
	payment_mode, amount, unused_amount, reference, bill_payments, notes,
	created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var allocations []byte
	err := row.Scan(&p.ID, &p.PaymentNumber, &p.Date, &p.VendorID,
		&p.VendorName, &p.PaymentMode, &p.Amount, &p.UnusedAmount,
		&p.Reference, &allocations, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	if err := db.UnmarshalJSONB(allocations, &p.BillPayments); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if req.VendorID != nil {
		args = append(args, *req.VendorID)
		where += fmt.Sprintf(" AND vendor_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (payment_number ILIKE $%d OR vendor_name ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payments_made "+where, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf("SELECT %s FROM payments_made %s ORDER BY date DESC, payment_number DESC LIMIT $%d OFFSET $%d",
		paymentColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM payments_made WHERE id = $1", paymentColumns), id)
	return scanPayment(row)
}

func (r *repository) Create(ctx context.Context, p Payment) error {
	allocations, err := db.MarshalJSONB(p.BillPayments)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO payments_made (`+paymentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.PaymentNumber, p.Date, p.VendorID, p.VendorName,
		p.PaymentMode, p.Amount, p.UnusedAmount, p.Reference, allocations,
		p.Notes, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM payments_made WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT nextval('payment_number_seq')").Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%05d", n), nil
}

// PeekNumber previews the next payment number without consuming it, for
// the next-number endpoint the client calls while drafting.
func (r *repository) PeekNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.QueryRow(ctx,
		"SELECT last_value + CASE WHEN is_called THEN 1 ELSE 0 END FROM payment_number_seq").Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%05d", n), nil
}
