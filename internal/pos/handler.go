package pos

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
	r.Get("/orders", h.List)
	r.Get("/orders/{id}", h.Show)
	r.Post("/orders/{id}/repeat", h.Repeat)

	r.Get("/cart", h.Current)
	r.Post("/cart", h.Start)
	r.Post("/cart/items", h.AddItem)
	r.Delete("/cart/items/{itemID}", h.RemoveItem)
	r.Delete("/cart", h.Clear)
	r.Post("/cart/complete", h.Complete)
}

func (h *Handler) session(r *http.Request) (sessionID, cashierID string) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return "", ""
	}
	return sess.ID, sess.User()
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	sessionID, cashierID := h.session(r)
	order, err := h.service.StartOrResume(r.Context(), sessionID, cashierID)
	if err != nil {
		h.logger.Error("start cart failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := h.session(r)
	order, err := h.service.Current(r.Context(), sessionID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sessionID, cashierID := h.session(r)
	order, err := h.service.AddItem(r.Context(), sessionID, cashierID, req)
	if err != nil {
		h.logger.Error("add item failed", "error", err, "sku", req.SKU, "quantity", req.Quantity)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}
	sessionID, cashierID := h.session(r)
	order, err := h.service.RemoveItem(r.Context(), sessionID, itemID, cashierID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, cashierID := h.session(r)
	if err := h.service.Clear(r.Context(), sessionID, cashierID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sessionID, _ := h.session(r)
	order, err := h.service.Complete(r.Context(), sessionID, req)
	if err != nil {
		h.logger.Error("complete order failed", "error", err, "payment_method", req.PaymentMethod)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Repeat(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	sessionID, cashierID := h.session(r)
	result, err := h.service.Repeat(r.Context(), sessionID, cashierID, orderID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}

	filters := ListFilters{Page: page, Limit: limit, Date: r.URL.Query().Get("date")}
	if v := r.URL.Query().Get("status"); v != "" {
		status := OrderStatus(v)
		filters.Status = &status
	}
	if v := r.URL.Query().Get("payment_method"); v != "" {
		method := PaymentMethod(v)
		filters.PaymentMethod = &method
	}

	orders, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
