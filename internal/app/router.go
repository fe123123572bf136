package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/salepoint/salepoint/internal/auth"
	"github.com/salepoint/salepoint/internal/catalog/categories"
	"github.com/salepoint/salepoint/internal/catalog/products"
	"github.com/salepoint/salepoint/internal/inventory"
	"github.com/salepoint/salepoint/internal/licensing"
	"github.com/salepoint/salepoint/internal/observability"
	"github.com/salepoint/salepoint/internal/pos"
	"github.com/salepoint/salepoint/internal/receipts"
	"github.com/salepoint/salepoint/internal/reporting"
	"github.com/salepoint/salepoint/internal/settings"
	"github.com/salepoint/salepoint/internal/shared"
	"github.com/salepoint/salepoint/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Metrics        *observability.Metrics

	AuthHandler      *auth.Handler
	ProductHandler   *products.Handler
	CategoryHandler  *categories.Handler
	InventoryHandler *inventory.Handler
	POSHandler       *pos.Handler
	ReportHandler    *reporting.Handler
	ReceiptHandler   *receipts.Handler
	SettingsHandler  *settings.Handler
	LicenseHandler   *licensing.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with SalePoint defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		params.AuthHandler.MountPublicRoutes(api)
		// Receipt verification is public: anyone holding a printed code
		// can check it.
		params.ReceiptHandler.MountPublicRoutes(api)

		api.Group(func(authed chi.Router) {
			authed.Use(auth.RequireAuth)
			params.AuthHandler.MountRoutes(authed)
			params.ProductHandler.MountRoutes(authed)
			params.CategoryHandler.MountRoutes(authed)
			params.POSHandler.MountRoutes(authed)
			params.ReceiptHandler.MountRoutes(authed)
			params.LicenseHandler.MountRoutes(authed)

			authed.Group(func(managed chi.Router) {
				managed.Use(auth.RequireRole(auth.RoleManager))
				params.InventoryHandler.MountRoutes(managed)
				params.ReportHandler.MountRoutes(managed)
			})

			authed.Group(func(admin chi.Router) {
				admin.Use(auth.RequireRole())
				params.AuthHandler.MountAdminRoutes(admin)
				params.SettingsHandler.MountRoutes(admin)
				if params.JobHandler != nil {
					admin.Route("/jobs", func(jr chi.Router) {
						params.JobHandler.MountRoutes(jr)
					})
				}
			})
		})
	})

	return r
}
