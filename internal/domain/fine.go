package domain

import "time"

type FineStatus string

const (
	FinePending FineStatus = "Pending"
	FinePaid    FineStatus = "Paid"
	FineWaived  FineStatus = "Waived"
)

type FineType string

const (
	FineOverdue     FineType = "Overdue"
	FineLostItem    FineType = "Lost Item"
	FineDamagedItem FineType = "Damaged Item"
	FineOther       FineType = "Other"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentOnline PaymentMethod = "Online"
	PaymentCheck  PaymentMethod = "Check"
)

// Fine is a monetary obligation against a patron, optionally tied to the
// loan that produced it. A patron's total_fines_owed_cents is always the
// sum of their Pending fines; every create/pay/waive recomputes it in the
// same transaction.
type Fine struct {
	ID            int32         `json:"id"`
	LoanID        *int32        `json:"loan_id,omitempty"`
	PatronID      int32         `json:"patron_id"`
	AmountCents   int32         `json:"amount_cents"`
	Type          FineType      `json:"type"`
	Reason        string        `json:"reason"`
	IssuedDate    time.Time     `json:"issued_date"`
	Status        FineStatus    `json:"status"`
	PaidDate      *time.Time    `json:"paid_date,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	WaivedBy      *int32        `json:"waived_by,omitempty"`
	WaivedReason  string        `json:"waived_reason,omitempty"`
}
