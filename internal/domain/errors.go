package domain

import (
	"errors"
	"fmt"
)

// Errors returned across the service boundary. Every mutating operation
// is a single transaction, so a returned error never leaves partial
// state visible.
var (
	// Auth
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrAlreadyLoggedIn = errors.New("user already logged in")
	ErrBadCredentials  = errors.New("login failed")

	// Validation
	ErrNegativeBalance = errors.New("initial balance must be non-negative")
	ErrInvalidUsername = errors.New("invalid username")
	ErrUserExists      = errors.New("username already taken")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidSearch   = errors.New("invalid search parameters")

	// Booking / payment / cancellation
	ErrNoSuchItinerary     = errors.New("no such itinerary")
	ErrBookingFailed       = errors.New("booking failed")
	ErrSameDayConflict     = errors.New("cannot book two flights in the same day")
	ErrReservationNotFound = errors.New("unpaid reservation not found")
	ErrCancellationFailed  = errors.New("cancellation failed")
	ErrNoReservations      = errors.New("no reservations found")

	// ErrStoreConflict reports a serialization failure or deadlock from
	// the store. The whole operation was rolled back and may be retried
	// by the caller; the service never retries on its own.
	ErrStoreConflict = errors.New("store conflict, operation may be retried")
)

// InsufficientFundsError carries both sides of a failed funds check.
type InsufficientFundsError struct {
	Have int64
	Need int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("user has only %d in account but itinerary costs %d", e.Have, e.Need)
}
