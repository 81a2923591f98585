// Package authz is the single policy evaluator for the platform. Every
// resource module (users, locations, facilities, bookings) routes its
// ownership and role decisions through these functions instead of
// re-implementing the checks inline. The functions are pure: they take
// the requester's identity claims plus the target's owning ids and
// return a decision, nothing else.
package authz

import "github.com/courtside/facility-booking/internal/model"

// Requester is the identity extracted from a verified access token.
type Requester struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the role has platform-wide reach. super_admin
// and admin are equivalent for resource access; they differ only in
// role-assignment limits, which CanAssignRole handles.
func IsAdmin(role string) bool {
	return role == model.RoleSuperAdmin || role == model.RoleAdmin
}

// CanAccess decides whether the requester may see or modify a resource
// owned by tenant ownerID. Admins reach everything; everyone else only
// reaches resources whose owning tenant id equals their own user id.
func CanAccess(r Requester, ownerID uint64) bool {
	if IsAdmin(r.Role) {
		return true
	}
	return ownerID == r.ID
}

// CanManageUser decides whether the requester may read or mutate the
// target user record. Admins manage anyone. A client admin manages only
// users provisioned inside their own tenant domain, i.e. whose client_id
// equals the client admin's id. Plain users manage nobody but themselves.
func CanManageUser(r Requester, targetID uint64, targetClientID *uint64) bool {
	if IsAdmin(r.Role) {
		return true
	}
	if r.Role == model.RoleClient {
		return targetClientID != nil && *targetClientID == r.ID
	}
	return targetID == r.ID
}

// CanAssignRole decides whether the requester may set (or create a user
// with) the given target role. A client requester may never hand out
// super_admin or admin, regardless of ownership. Observed platform
// behavior places no such limit on admin requesters, so none is imposed
// here.
func CanAssignRole(requesterRole, targetRole string) bool {
	if requesterRole == model.RoleClient {
		return targetRole != model.RoleSuperAdmin && targetRole != model.RoleAdmin
	}
	return true
}

// VisibleDomain returns the tenant domain a listing should be scoped to:
// 0 means unscoped (admins), otherwise the requester's own domain.
func VisibleDomain(r Requester) uint64 {
	if IsAdmin(r.Role) {
		return 0
	}
	return r.ID
}
