package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/service"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: true, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(response{Success: false, Message: message})
}

// writeError maps domain and service errors onto HTTP statuses. Unknown
// errors are logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: false, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPatronNotFound),
		errors.Is(err, domain.ErrMaterialNotFound),
		errors.Is(err, domain.ErrCopyNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrFineNotFound),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrBranchNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrCopyUnavailable),
		errors.Is(err, domain.ErrAlreadyReturned),
		errors.Is(err, domain.ErrRenewalLimitExceeded),
		errors.Is(err, domain.ErrReservationNotPending),
		errors.Is(err, domain.ErrAlreadyTerminal),
		errors.Is(err, domain.ErrFineNotPending),
		errors.Is(err, domain.ErrDuplicateHold),
		errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict

	case errors.Is(err, domain.ErrPartialPayment):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrPatronIneligible),
		errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, service.ErrAccountDisabled):
		return http.StatusForbidden

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}
