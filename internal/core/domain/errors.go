package domain

import "errors"

// Error taxonomy. The HTTP boundary maps each sentinel to a status code;
// services and repositories wrap them with context via fmt.Errorf("%w").
var (
	// ErrValidation marks malformed or missing input. User-correctable,
	// surfaced verbatim.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition marks a listing status change not present in the
	// transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized marks a missing or invalid access token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an authenticated caller that does not own the
	// target entity.
	ErrForbidden = errors.New("access forbidden")

	// ErrListingNotFound marks an absent listing.
	ErrListingNotFound = errors.New("listing not found")

	// ErrStorageUnavailable marks an infrastructure failure on the key-value
	// store. Retryable; never exposes internal detail to clients.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
