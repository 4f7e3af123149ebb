package domain

import "errors"

// Not-found errors: the id did not resolve to a row.
var (
	ErrPatronNotFound      = errors.New("patron not found")
	ErrMaterialNotFound    = errors.New("material not found")
	ErrCopyNotFound        = errors.New("copy not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrFineNotFound        = errors.New("fine not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrBranchNotFound      = errors.New("branch not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrNotificationNotFound = errors.New("notification not found")
)

// Precondition violations: the row exists but is in the wrong state for
// the requested transition. Never silently ignored.
var (
	ErrCopyUnavailable       = errors.New("copy is not available")
	ErrAlreadyReturned       = errors.New("loan is already closed")
	ErrRenewalLimitExceeded  = errors.New("loan renewal limit reached")
	ErrReservationNotPending = errors.New("reservation is not pending")
	ErrAlreadyTerminal       = errors.New("reservation is already cancelled, expired or fulfilled")
	ErrFineNotPending        = errors.New("fine is not pending")
)

// Business-rule denials, surfaced to the caller for user-facing messaging.
var (
	ErrDuplicateHold  = errors.New("patron already holds this material")
	ErrNotOwner       = errors.New("reservation belongs to another patron")
	ErrPartialPayment = errors.New("payment must cover the full fine amount")
)
