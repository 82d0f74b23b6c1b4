package salesorders

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk/internal/invoices"
	"github.com/ledgerdesk/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk/ledgerdesk/internal/money"
	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// InvoiceCreator is the slice of the invoices service conversion needs.
type InvoiceCreator interface {
	Create(ctx context.Context, req invoices.CreateInvoiceRequest) (*invoices.Invoice, error)
}

type Service struct {
	repo     Repository
	invoices InvoiceCreator
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, invoices InvoiceCreator) *Service {
	return &Service{repo: repo, invoices: invoices, validate: validator.New(), now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]SalesOrder, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, httpx.Invalid(err.Error())
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SalesOrder, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*SalesOrder, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}

	items := make([]OrderItem, 0, len(req.Items))
	lines := make([]ledger.LineInput, 0, len(req.Items))
	for _, it := range req.Items {
		line := ledger.LineInput{
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			DiscountType:  it.DiscountType,
			DiscountValue: it.DiscountValue,
			TaxPercent:    it.TaxPercent,
		}
		res := ledger.ComputeLine(line)
		lines = append(lines, line)
		items = append(items, OrderItem{
			Details:       it.Details,
			Account:       it.Account,
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			DiscountType:  it.DiscountType,
			DiscountValue: it.DiscountValue,
			TaxPercent:    it.TaxPercent,
			TaxAmount:     res.Tax,
			Amount:        res.Amount,
		})
	}
	totals := ledger.ComputeTotals(ledger.TotalsInput{
		Lines:           lines,
		Scheme:          req.TaxScheme,
		ShippingCharges: req.ShippingCharges,
		Adjustment:      req.Adjustment,
	})

	var created *SalesOrder
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number := req.OrderNumber
		if number == "" {
			var err error
			if number, err = repo.NextNumber(ctx); err != nil {
				return fmt.Errorf("generate order number: %w", err)
			}
		}
		now := s.now()
		o := SalesOrder{
			ID:                   uuid.New(),
			OrderNumber:          number,
			ReferenceNumber:      req.ReferenceNumber,
			Date:                 req.Date,
			ExpectedShipmentDate: req.ExpectedShipmentDate,
			CustomerID:           req.CustomerID,
			CustomerName:         req.CustomerName,
			BillingAddress:       req.BillingAddress,
			ShippingAddress:      req.ShippingAddress,
			PaymentTerms:         req.PaymentTerms,
			TaxScheme:            req.TaxScheme,
			Items:                items,
			SubTotal:             totals.SubTotal,
			ShippingCharges:      totals.ShippingCharges,
			CGST:                 totals.CGST,
			SGST:                 totals.SGST,
			IGST:                 totals.IGST,
			TaxAmount:            totals.TaxAmount,
			Adjustment:           totals.Adjustment,
			Total:                totals.Total,
			Status:               ledger.StatusConfirmed,
			CustomerNotes:        req.CustomerNotes,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		s.appendActivity(&o, "created", fmt.Sprintf("Sales order %s created for %s", o.OrderNumber, money.Format(o.Total)))
		if err := repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create sales order: %w", err)
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Convert carries the order's uninvoiced lines onto a new invoice. An
// explicit item selection produces a partial conversion; the order turns
// CONVERTED once every line has been invoiced. Shipping and adjustment
// transfer only with the conversion that completes the order.
func (s *Service) Convert(ctx context.Context, id uuid.UUID, req ConvertRequest) (*invoices.Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Invalid(err.Error())
	}

	var inv *invoices.Invoice
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		o, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if o.Status.Terminal() {
			return httpx.Invalid(fmt.Sprintf("Cannot convert a %s sales order", o.Status))
		}

		selected := req.ItemIndexes
		if len(selected) == 0 {
			for i, it := range o.Items {
				if !it.Invoiced {
					selected = append(selected, i)
				}
			}
		}
		if len(selected) == 0 {
			return httpx.Invalid("No items left to invoice on this sales order")
		}

		var invoiceItems []invoices.CreateInvoiceItemRequest
		for _, idx := range selected {
			if idx < 0 || idx >= len(o.Items) {
				return httpx.Invalid("Invalid item selection")
			}
			it := o.Items[idx]
			if it.Invoiced {
				return httpx.Invalid(fmt.Sprintf("Item %q has already been invoiced", it.Details))
			}
			invoiceItems = append(invoiceItems, invoices.CreateInvoiceItemRequest{
				Details:       it.Details,
				Account:       it.Account,
				Quantity:      it.Quantity,
				Rate:          it.Rate,
				DiscountType:  it.DiscountType,
				DiscountValue: it.DiscountValue,
				TaxPercent:    it.TaxPercent,
			})
			o.Items[idx].Invoiced = true
		}

		invReq := invoices.CreateInvoiceRequest{
			Date:            s.now(),
			DueDate:         req.DueDate,
			CustomerID:      o.CustomerID,
			CustomerName:    o.CustomerName,
			BillingAddress:  o.BillingAddress,
			ShippingAddress: o.ShippingAddress,
			PaymentTerms:    o.PaymentTerms,
			TaxScheme:       o.TaxScheme,
			Items:           invoiceItems,
			SourceType:      "sales_order",
			SourceNumber:    o.OrderNumber,
		}
		if o.FullyInvoiced() {
			invReq.ShippingCharges = o.ShippingCharges
			invReq.Adjustment = o.Adjustment
		}

		inv, err = s.invoices.Create(ctx, invReq)
		if err != nil {
			return fmt.Errorf("convert sales order %s: %w", o.OrderNumber, err)
		}

		o.InvoiceNumbers = append(o.InvoiceNumbers, inv.InvoiceNumber)
		if o.FullyInvoiced() {
			o.Status = ledger.StatusConverted
		}
		s.appendActivity(o, "converted", fmt.Sprintf("Invoice %s created from sales order", inv.InvoiceNumber))
		return repo.Save(ctx, *o)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if o.Status == ledger.StatusConverted || len(o.InvoiceNumbers) > 0 {
		return httpx.Invalid("Cannot delete a sales order that has been invoiced")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) appendActivity(o *SalesOrder, action, description string) {
	o.ActivityLogs = append(o.ActivityLogs, shared.ActivityLog{
		Action:      action,
		Description: description,
		Date:        s.now().Format(time.RFC3339),
	})
}
