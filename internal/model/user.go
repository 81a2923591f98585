package model

import "time"

// Role values form a strict privilege order. super_admin and admin have
// platform-wide reach; client owns a tenant domain; user has no
// administrative reach at all.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleClient     = "client"
	RoleUser       = "user"
)

// ValidRole reports whether s is one of the four known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleSuperAdmin, RoleAdmin, RoleClient, RoleUser:
		return true
	}
	return false
}

// User represents a row in the `users` table.
//
// ClientID is a nullable self-reference: for a user provisioned inside a
// client admin's tenant domain it holds that client admin's user id. For
// client admins it is their own id or nil; for platform admins it is nil.
//
// Modules optionally overrides the role-derived dashboard capability set.
// It is stored as a comma-separated string in the database and surfaced
// here as a slice; nil means "fall back to role".
type User struct {
	ID                     uint64
	Name                   string
	Email                  string
	PasswordHash           string
	Role                   string
	ClientID               *uint64
	Modules                []string
	RequiresPasswordChange bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SafeUser is the externally visible shape of a User: everything except
// the password hash.
type SafeUser struct {
	ID                     uint64    `json:"id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Role                   string    `json:"role"`
	ClientID               *uint64   `json:"client_id"`
	Modules                []string  `json:"modules,omitempty"`
	RequiresPasswordChange bool      `json:"requires_password_change"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Safe strips the password hash from a User.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:                     u.ID,
		Name:                   u.Name,
		Email:                  u.Email,
		Role:                   u.Role,
		ClientID:               u.ClientID,
		Modules:                u.Modules,
		RequiresPasswordChange: u.RequiresPasswordChange,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

// RefreshToken models a row in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored; the raw secret goes back to
// the client once and is never persisted. A token is live iff RevokedAt
// is nil and ExpiresAt is in the future. Rotation rewrites TokenHash in
// place, so a single row describes one session lineage.
type RefreshToken struct {
	ID         uint64
	UserID     uint64
	TokenHash  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
