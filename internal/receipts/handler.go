package receipts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salepoint/salepoint/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/receipts/{orderNumber}", h.Show)
}

// MountPublicRoutes exposes verification without authentication, for
// scanned receipt codes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/verify/{orderNumber}", h.Verify)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Receipt(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "code is required")
		return
	}

	result, err := h.service.Verify(r.Context(), chi.URLParam(r, "orderNumber"), code)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
