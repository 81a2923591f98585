package model

import "time"

// Booking status values. The lifecycle is a plain state machine:
// pending -> confirmed -> completed, with cancelled reachable from
// pending or confirmed.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking reserves a facility (or a whole location) for a time window on
// behalf of a user.
type Booking struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	LocationID uint64    `json:"location_id"`
	FacilityID *uint64   `json:"facility_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
