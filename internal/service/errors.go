// Package service holds the business flows of the platform: the session
// façade (login, refresh, logout, password changes) and user
// administration. Handlers translate the sentinel errors below into
// HTTP status codes in exactly one place.
package service

import "errors"

// ErrUnauthorized covers bad credentials and invalid, expired, revoked
// or replayed tokens. Login deliberately collapses "no such user" and
// "wrong password" into this one value so the API never reveals which
// emails are registered.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden means the caller is authenticated but the policy denies
// the operation: wrong tenant domain or a disallowed role assignment.
var ErrForbidden = errors.New("forbidden")

// ErrConflict signals a uniqueness violation, e.g. registering an email
// that already exists.
var ErrConflict = errors.New("conflict")

// ErrNotFound signals that a referenced entity is absent.
var ErrNotFound = errors.New("not found")

// ErrValidation signals malformed input or out-of-range values.
var ErrValidation = errors.New("validation failed")
