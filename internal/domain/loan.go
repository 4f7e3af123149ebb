package domain

import "time"

type LoanStatus string

const (
	LoanActive   LoanStatus = "Active"
	LoanOverdue  LoanStatus = "Overdue"
	LoanReturned LoanStatus = "Returned"
	LoanLost     LoanStatus = "Lost"
)

// Loan is one borrowing episode linking a Copy to a Patron.
// At most one open loan may reference a copy at any time.
type Loan struct {
	ID           int32      `json:"id"`
	CopyID       int32      `json:"copy_id"`
	PatronID     int32      `json:"patron_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	RenewalCount int32      `json:"renewal_count"`
	Status       LoanStatus `json:"status"`
	CheckedOutBy int32      `json:"checked_out_by"`
	ReturnedTo   *int32     `json:"returned_to,omitempty"`
}

// Open reports whether the loan still holds its copy. Overdue loans are
// open loans whose due date has passed; the nightly sweep only changes the
// label, not the lifecycle.
func (l *Loan) Open() bool {
	return l.Status == LoanActive || l.Status == LoanOverdue
}

// DaysOverdue returns the number of whole days the loan is past due at the
// given instant. Zero or negative means on time.
func DaysOverdue(dueDate, at time.Time) int32 {
	if !at.After(dueDate) {
		return 0
	}
	return int32(at.Sub(dueDate).Hours() / 24)
}
