package domain

import "time"

// DailyCirculationReport summarizes one day of desk activity, optionally
// scoped to a branch.
type DailyCirculationReport struct {
	Day                 time.Time `json:"day"`
	BranchID            *int32    `json:"branch_id,omitempty"`
	Checkouts           int32     `json:"checkouts"`
	Returns             int32     `json:"returns"`
	FinesAssessedCents  int32     `json:"fines_assessed_cents"`
	FinesCollectedCents int32     `json:"fines_collected_cents"`
	NewReservations     int32     `json:"new_reservations"`
}
