// Package services defines the business logic for terminal dispatch, return,
// and bulk import. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer. Validation failures are not sentinels: they surface as
// *domain.ValidationError so the full violation list reaches the caller.
package services

import "errors"

var (
	// ErrTerminalNotFound indicates that the referenced terminal record does
	// not exist (it may have been deleted; deletions are physical and final).
	ErrTerminalNotFound = errors.New("terminal not found")

	// ErrAlreadyReturned is returned when a return transition is attempted on
	// a terminal that is already in the returned state.
	ErrAlreadyReturned = errors.New("terminal already returned")

	// ErrNotReturned is returned when a reactivate transition is attempted on
	// a terminal that is currently active.
	ErrNotReturned = errors.New("terminal is not returned")

	// ErrDuplicateTerminalID is returned when a dispatch would reuse a
	// business terminal ID that is already registered.
	ErrDuplicateTerminalID = errors.New("terminal id already registered")
)
