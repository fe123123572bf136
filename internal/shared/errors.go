package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation indicates malformed input rejected before persistence.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a unique constraint conflict (SKU, order number).
	ErrDuplicate = errors.New("duplicate entry")
	// ErrForbidden indicates the actor lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrLicenseInvalid indicates a missing, inactive or expired license.
	ErrLicenseInvalid = errors.New("license inactive or expired")
	// ErrLimitExceeded indicates a subscription plan ceiling was reached.
	ErrLimitExceeded = errors.New("subscription plan limit reached")
)

// InsufficientStockError rejects a stock decrease that would underflow.
// Available is surfaced so the caller can offer a reduced quantity.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.ProductName, e.Available)
}
