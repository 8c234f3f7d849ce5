package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/services"
)

// errorStatus maps service errors to HTTP statuses. Validation failures are
// the caller's fault; state conflicts get 409 so the counter UI can prompt.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, billing.ErrOverPayment),
		errors.Is(err, billing.ErrUnconfirmedBalance),
		errors.Is(err, billing.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, billing.ErrInvalidQuantity),
		errors.Is(err, billing.ErrInvalidUnitPrice),
		errors.Is(err, billing.ErrInvalidAmount),
		errors.Is(err, billing.ErrEmptyBill),
		errors.Is(err, billing.ErrInvalidTotal),
		errors.Is(err, services.ErrCustomerQueryTooShort),
		errors.Is(err, services.ErrUnknownFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
