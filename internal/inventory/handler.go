package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/salepoint/salepoint/internal/platform/httpx"
	"github.com/salepoint/salepoint/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inventory/transactions", h.ListTransactions)
	r.Get("/inventory/adjustments", h.ListAdjustments)
	r.Post("/inventory/adjustments", h.Adjust)
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	actor := ""
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		actor = sess.User()
	}

	adjustment, level, err := h.service.Adjust(r.Context(), req, actor)
	if err != nil {
		h.logger.Error("stock adjustment failed", "error", err, "product_id", req.ProductID, "type", req.Type)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"adjustment": adjustment,
		"stock":      level,
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filters := ListTransactionFilters{}
	if v := r.URL.Query().Get("product_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ProductID = &id
		}
	}
	if v := r.URL.Query().Get("type"); v != "" {
		t := TransactionType(v)
		filters.Type = &t
	}
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.Transactions(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": items})
}

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.Adjustments(r.Context(), limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"adjustments": items})
}
