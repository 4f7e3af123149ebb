package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationReady     ReservationStatus = "Ready"
	ReservationFulfilled ReservationStatus = "Fulfilled"
	ReservationCancelled ReservationStatus = "Cancelled"
	ReservationExpired   ReservationStatus = "Expired"
)

// Reservation is a queued hold on a material, not on a specific copy.
// QueuePosition is assigned once at placement and never rewritten; the
// effective rank among Pending holds is computed from placement order, so
// cancellations ahead in the queue need no renumbering.
type Reservation struct {
	ID            int32             `json:"id"`
	MaterialID    int32             `json:"material_id"`
	PatronID      int32             `json:"patron_id"`
	PlacedDate    time.Time         `json:"placed_date"`
	ExpiryDate    *time.Time        `json:"expiry_date,omitempty"`
	QueuePosition int32             `json:"queue_position"`
	Status        ReservationStatus `json:"status"`
	CopyID        *int32            `json:"copy_id,omitempty"`
	NotifiedDate  *time.Time        `json:"notified_date,omitempty"`
	FulfilledDate *time.Time        `json:"fulfilled_date,omitempty"`
}

// Terminal reports whether the reservation can no longer change state.
func (r *Reservation) Terminal() bool {
	switch r.Status {
	case ReservationFulfilled, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}
