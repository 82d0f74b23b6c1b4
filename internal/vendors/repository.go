package vendors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type Repository interface {
	List(ctx context.Context, req ListVendorsRequest) ([]Vendor, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Vendor, error)
	Create(ctx context.Context, v Vendor) error
	Update(ctx context.Context, v Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const vendorColumns = `id, name, display_name, company_name, email, phone, gstin,
	gst_treatment, currency, opening_balance, payment_terms, source_of_supply,
	billing_address, shipping_address, payables, unused_credits, status,
	created_at, updated_at`

func scanVendor(row pgx.Row) (*Vendor, error) {
	var v Vendor
	var billing, shipping []byte
	err := row.Scan(&v.ID, &v.Name, &v.DisplayName, &v.CompanyName, &v.Email,
		&v.Phone, &v.GSTIN, &v.GSTTreatment, &v.Currency, &v.OpeningBalance,
		&v.PaymentTerms, &v.SourceOfSupply, &billing, &shipping, &v.Payables,
		&v.UnusedCredits, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	if len(billing) > 0 {
		v.BillingAddress = &shared.Address{}
		if err := json.Unmarshal(billing, v.BillingAddress); err != nil {
			return nil, err
		}
	}
	if len(shipping) > 0 {
		v.ShippingAddress = &shared.Address{}
		if err := json.Unmarshal(shipping, v.ShippingAddress); err != nil {
			return nil, err
		}
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, req ListVendorsRequest) ([]Vendor, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR company_name ILIKE $%d OR gstin ILIKE $%d)",
			len(args), len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vendors "+where, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf("SELECT %s FROM vendors %s ORDER BY name LIMIT $%d OFFSET $%d",
		vendorColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM vendors WHERE id = $1", vendorColumns), id)
	return scanVendor(row)
}

func (r *repository) Create(ctx context.Context, v Vendor) error {
	billing, err := marshalAddress(v.BillingAddress)
	if err != nil {
		return err
	}
	shipping, err := marshalAddress(v.ShippingAddress)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO vendors (id, name, display_name, company_name, email, phone,
			gstin, gst_treatment, currency, opening_balance, payment_terms,
			source_of_supply, billing_address, shipping_address, payables,
			unused_credits, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		v.ID, v.Name, v.DisplayName, v.CompanyName, v.Email, v.Phone, v.GSTIN,
		v.GSTTreatment, v.Currency, v.OpeningBalance, v.PaymentTerms,
		v.SourceOfSupply, billing, shipping, v.Payables, v.UnusedCredits,
		v.Status, v.CreatedAt, v.UpdatedAt)
	return err
}

func (r *repository) Update(ctx context.Context, v Vendor) error {
	billing, err := marshalAddress(v.BillingAddress)
	if err != nil {
		return err
	}
	shipping, err := marshalAddress(v.ShippingAddress)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendors SET name=$2, display_name=$3, company_name=$4, email=$5,
			phone=$6, gstin=$7, gst_treatment=$8, payment_terms=$9,
			source_of_supply=$10, billing_address=$11, shipping_address=$12,
			status=$13, updated_at=$14
		WHERE id = $1`,
		v.ID, v.Name, v.DisplayName, v.CompanyName, v.Email, v.Phone, v.GSTIN,
		v.GSTTreatment, v.PaymentTerms, v.SourceOfSupply, billing, shipping,
		v.Status, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM vendors WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor: %w", httpx.ErrNotFound)
	}
	return nil
}

func marshalAddress(a *shared.Address) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}
