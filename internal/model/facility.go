package model

import "time"

// Facility kinds supported by the platform. One table serves all six;
// the kind column is what the old per-sport services encoded in their
// deployment topology.
const (
	KindGaming      = "gaming"
	KindCricket     = "cricket"
	KindPadel       = "padel"
	KindSnooker     = "snooker"
	KindTableTennis = "table_tennis"
	KindFutsalTurf  = "futsal_turf"
)

// ValidKind reports whether s names a supported facility kind.
func ValidKind(s string) bool {
	switch s {
	case KindGaming, KindCricket, KindPadel, KindSnooker, KindTableTennis, KindFutsalTurf:
		return true
	}
	return false
}

// Location is a physical address owned by a client admin. Facilities may
// share a location.
type Location struct {
	ID         uint64    `json:"id"`
	ClientID   uint64    `json:"client_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Facility is a bookable unit (a turf, a table, a court) owned by a
// client admin's tenant domain via ClientID.
type Facility struct {
	ID              uint64    `json:"id"`
	ClientID        uint64    `json:"client_id"`
	LocationID      *uint64   `json:"location_id"`
	Kind            string    `json:"kind"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	HourlyRateCents uint32    `json:"hourly_rate_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
