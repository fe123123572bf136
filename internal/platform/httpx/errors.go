package httpx

import (
	"errors"
	"net/http"

	"github.com/salepoint/salepoint/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Every guarded
// operation fails closed, so the mapping only ever reports state that
// was left unchanged.
func RespondError(w http.ResponseWriter, err error) {
	var stockErr *shared.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		ProblemWith(w, http.StatusConflict, "Insufficient Stock", stockErr.Error(), map[string]any{
			"available": stockErr.Available,
		})
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrLicenseInvalid):
		Problem(w, http.StatusPaymentRequired, "License Invalid", err.Error())
	case errors.Is(err, shared.ErrLimitExceeded):
		Problem(w, http.StatusForbidden, "Plan Limit Reached", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
