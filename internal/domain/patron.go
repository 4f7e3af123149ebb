package domain

import "time"

type MembershipType string

const (
	MembershipStandard MembershipType = "Standard"
	MembershipStudent  MembershipType = "Student"
	MembershipPremium  MembershipType = "Premium"
	MembershipVIP      MembershipType = "VIP"
	MembershipChild    MembershipType = "Child"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "Active"
	AccountSuspended AccountStatus = "Suspended"
	AccountExpired   AccountStatus = "Expired"
)

type Patron struct {
	ID                  int32          `json:"id"`
	UserID              *int32         `json:"user_id,omitempty"`
	CardNumber          string         `json:"card_number"`
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	Email               string         `json:"email"`
	Phone               string         `json:"phone"`
	Address             string         `json:"address"`
	DateOfBirth         *time.Time     `json:"date_of_birth,omitempty"`
	MembershipType      MembershipType `json:"membership_type"`
	RegistrationDate    time.Time      `json:"registration_date"`
	MembershipExpiry    time.Time      `json:"membership_expiry"`
	RegisteredBranchID  int32          `json:"registered_branch_id"`
	AccountStatus       AccountStatus  `json:"account_status"`
	TotalFinesOwedCents int32          `json:"total_fines_owed_cents"`
	MaxBorrowLimit      int32          `json:"max_borrow_limit"`
}

// PatronStatistics is the read-only activity summary shown on the staff
// patron page.
type PatronStatistics struct {
	PatronID         int32 `json:"patron_id"`
	ActiveLoans      int32 `json:"active_loans"`
	OverdueLoans     int32 `json:"overdue_loans"`
	PendingFines     int32 `json:"pending_fines"`
	PendingFineCents int32 `json:"pending_fine_cents"`
	OpenReservations int32 `json:"open_reservations"`
	LifetimeLoans    int32 `json:"lifetime_loans"`
}
