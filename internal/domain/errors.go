package domain

import "errors"

var (
	// ErrUnauthenticated is returned when a request carries no usable caller identity
	ErrUnauthenticated = errors.New("caller identity is missing or invalid")

	// ErrScopeViolation is returned when a record or owner lies outside the caller's scope
	ErrScopeViolation = errors.New("requested resource is outside the caller's scope")

	// ErrRecordNotFound is returned when a telemetry record does not exist
	ErrRecordNotFound = errors.New("record not found")

	// ErrUserNotFound is returned by the user store for unknown ids
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPatch is returned when a correction names fields the record kind does not allow
	ErrInvalidPatch = errors.New("invalid record patch")

	// ErrInvalidQuery is returned for request parameters that cannot be honoured
	ErrInvalidQuery = errors.New("invalid query")

	// ErrDataUnavailable marks failures of a backing store
	ErrDataUnavailable = errors.New("data store unavailable")
)
