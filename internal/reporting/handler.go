package reporting

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/salepoint/salepoint/internal/catalog/products"
	"github.com/salepoint/salepoint/internal/licensing"
	"github.com/salepoint/salepoint/internal/platform/httpx"
	"github.com/salepoint/salepoint/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	products  *products.Service
	licensing *licensing.Service
	clock     shared.Clock
}

func NewHandler(logger *slog.Logger, service *Service, productSvc *products.Service, licenseSvc *licensing.Service, clock shared.Clock) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		products:  productSvc,
		licensing: licenseSvc,
		clock:     clock,
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/daily", h.Daily)
	r.Get("/reports/range", h.Range)
	r.Get("/dashboard", h.Dashboard)
}

// Daily regenerates the summary for the requested date, defaulting to
// today. Regeneration on read keeps the row honest against mid-day
// corrections.
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	date := h.clock.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	summary, err := h.service.Generate(r.Context(), date)
	if err != nil {
		h.logger.Error("generate summary failed", "error", err, "date", date.Format(dateLayout))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) Range(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to must not precede from")
		return
	}

	summaries, err := h.service.Range(r.Context(), from, to)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"summaries": summaries})
}

// Dashboard assembles today's summary, yesterday's stored summary, the
// low stock list and plan usage in parallel.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var (
		today     DailySalesSummary
		yesterday *DailySalesSummary
		lowStock  []products.Product
		usage     licensing.Usage
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		today, err = h.service.Today(ctx)
		return err
	})
	g.Go(func() error {
		summaries, err := h.service.Range(ctx, h.clock.Today().AddDate(0, 0, -1), h.clock.Today().AddDate(0, 0, -1))
		if err != nil {
			return err
		}
		if len(summaries) > 0 {
			yesterday = &summaries[0]
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lowStock, err = h.products.LowStock(ctx, 10)
		return err
	})
	g.Go(func() error {
		var err error
		usage, err = h.licensing.CurrentUsage(ctx)
		if errors.Is(err, shared.ErrLicenseInvalid) {
			// Dashboard still renders without a valid license.
			usage = licensing.Usage{}
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard assembly failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"today":     today,
		"yesterday": yesterday,
		"low_stock": lowStock,
		"usage":     usage,
	})
}
