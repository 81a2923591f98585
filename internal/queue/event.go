// Package queue defines message payloads exchanged over the message
// broker plus the publisher and background consumer that move them.
package queue

// BookingConfirmedEvent is published when a booking reaches the
// confirmed status. It carries enough context for downstream consumers
// (notifications, analytics) to act without querying the primary
// database.
type BookingConfirmedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	ClientID     uint64 `json:"client_id"`
	LocationID   uint64 `json:"location_id"`
	LocationName string `json:"location_name"`
	FacilityID   uint64 `json:"facility_id,omitempty"`
	FacilityKind string `json:"facility_kind,omitempty"`
	FacilityName string `json:"facility_name,omitempty"`
	StartsAt     string `json:"starts_at"`
	EndsAt       string `json:"ends_at"`
	ConfirmedAt  string `json:"confirmed_at"`
}
