package licensing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salepoint/salepoint/internal/platform/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/license/usage", h.Usage)
}

func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.CurrentUsage(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, usage)
}
