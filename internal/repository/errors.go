// Package repository contains data access logic separated from HTTP
// handlers and services. This file defines sentinel errors shared by the
// repositories so that higher layers can distinguish failure scenarios
// with errors.Is instead of string matching.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique
// constraint on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrProfileExists is returned when an insert collides with the unique
// constraint on clients.user_id: a user holds at most one client
// profile.
var ErrProfileExists = errors.New("client profile already exists")

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrTokenRotated is returned when a refresh-token rotation finds that
// the stored token no longer matches the presented value. This is the
// losing side of a redemption race: some other request already rotated
// the row, so the presented token is a replay.
var ErrTokenRotated = errors.New("refresh token already rotated")
