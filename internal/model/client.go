package model

import "time"

// Client profile approval statuses. A profile starts pending; an admin
// moves it to approved or rejected, may suspend it later, and activates
// it from approved or suspended.
const (
	ClientPending   = "pending"
	ClientApproved  = "approved"
	ClientRejected  = "rejected"
	ClientSuspended = "suspended"
	ClientActive    = "active"
)

// ValidClientStatus reports whether s is a known client profile status.
func ValidClientStatus(s string) bool {
	switch s {
	case ClientPending, ClientApproved, ClientRejected, ClientSuspended, ClientActive:
		return true
	}
	return false
}

// ClientProfile is the business profile attached to a client admin's
// user account. Each user holds at most one profile; the unique key on
// user_id enforces it.
type ClientProfile struct {
	ID                 uint64     `json:"id"`
	UserID             uint64     `json:"user_id"`
	CompanyName        string     `json:"company_name"`
	RegistrationNumber string     `json:"registration_number,omitempty"`
	TaxID              string     `json:"tax_id,omitempty"`
	Description        string     `json:"description,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Address            string     `json:"address,omitempty"`
	City               string     `json:"city,omitempty"`
	Country            string     `json:"country,omitempty"`
	Status             string     `json:"status"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	ApprovedBy         *uint64    `json:"approved_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
