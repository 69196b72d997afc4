// Package repository defines error types that are reused across multiple
// repositories and by the card service.  These sentinel values allow
// higher layers such as handlers to distinguish between different
// failure scenarios and map them to HTTP status codes.
package repository

import "errors"

// ErrCardNotFound is returned when no card exists with the given id.
// Handlers translate this into an HTTP 404 response.
var ErrCardNotFound = errors.New("card not found")

// ErrSponsorNotFound is returned when the sponsor bound to the caller
// (or requested by id) does not exist.  Handlers translate this into
// an HTTP 404 response.
var ErrSponsorNotFound = errors.New("sponsor not found")

// ErrUserNotFound is returned when no user matches a username.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when creating a user whose username is
// already taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrCardNotActive is returned when redeeming a card that was never
// activated.  It is an invalid state transition, not an idempotent
// no-op.
var ErrCardNotActive = errors.New("card not active")

// ErrAlreadyRedeemed is returned when redeeming a card that is already
// in its terminal state.
var ErrAlreadyRedeemed = errors.New("card already used")

// ErrQuotaExhausted is returned when the acting sponsor has no
// remaining uses.  The redemption is refused, never clamped.
var ErrQuotaExhausted = errors.New("sponsor quota exhausted")
