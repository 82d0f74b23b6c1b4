package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerdesk/ledgerdesk/internal/bills"
	"github.com/ledgerdesk/ledgerdesk/internal/invoices"
	"github.com/ledgerdesk/ledgerdesk/internal/payments"
	"github.com/ledgerdesk/ledgerdesk/internal/quotes"
	"github.com/ledgerdesk/ledgerdesk/internal/reports"
	"github.com/ledgerdesk/ledgerdesk/internal/salesorders"
	"github.com/ledgerdesk/ledgerdesk/internal/vendors"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	InvoiceHandler    *invoices.Handler
	BillHandler       *bills.Handler
	VendorHandler     *vendors.Handler
	PaymentHandler    *payments.Handler
	SalesOrderHandler *salesorders.Handler
	QuoteHandler      *quotes.Handler
	ReportHandler     *reports.Handler
}

// NewRouter constructs the chi.Router with LedgerDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/invoices", params.InvoiceHandler.MountRoutes)
		api.Route("/bills", params.BillHandler.MountRoutes)
		api.Route("/vendors", params.VendorHandler.MountRoutes)
		api.Route("/payments-made", params.PaymentHandler.MountRoutes)
		api.Route("/sales-orders", params.SalesOrderHandler.MountRoutes)
		api.Route("/quotes", params.QuoteHandler.MountRoutes)
		api.Route("/reports", params.ReportHandler.MountRoutes)
	})

	return r
}
