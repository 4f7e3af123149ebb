package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrPatronIneligible is the umbrella for every borrow/reserve denial.
// errors.Is(err, ErrPatronIneligible) matches any EligibilityError.
var ErrPatronIneligible = errors.New("patron is not eligible")

type IneligibilityReason string

const (
	ReasonSuspended            IneligibilityReason = "Suspended"
	ReasonMembershipExpired    IneligibilityReason = "MembershipExpired"
	ReasonLimitReached         IneligibilityReason = "LimitReached"
	ReasonFinesExceedThreshold IneligibilityReason = "FinesExceedThreshold"
)

type EligibilityError struct {
	Reason IneligibilityReason
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("patron is not eligible: %s", e.Reason)
}

func (e *EligibilityError) Unwrap() error { return ErrPatronIneligible }

// CheckBorrow decides whether the patron may check out one more copy.
// It is a pure function over its inputs; the caller supplies the current
// open-loan count so the decision is testable without storage.
func CheckBorrow(p *Patron, openLoans int32, fineThresholdCents int32, now time.Time) error {
	if err := CheckReserve(p, fineThresholdCents, now); err != nil {
		return err
	}
	if openLoans >= p.MaxBorrowLimit {
		return &EligibilityError{Reason: ReasonLimitReached}
	}
	return nil
}

// CheckReserve decides whether the patron may place a hold. The borrow
// limit does not apply to holds; suspension, lapsed membership and the
// fine threshold do.
func CheckReserve(p *Patron, fineThresholdCents int32, now time.Time) error {
	switch p.AccountStatus {
	case AccountSuspended:
		return &EligibilityError{Reason: ReasonSuspended}
	case AccountExpired:
		return &EligibilityError{Reason: ReasonMembershipExpired}
	}
	if now.After(p.MembershipExpiry) {
		return &EligibilityError{Reason: ReasonMembershipExpired}
	}
	if fineThresholdCents > 0 && p.TotalFinesOwedCents >= fineThresholdCents {
		return &EligibilityError{Reason: ReasonFinesExceedThreshold}
	}
	return nil
}
