// Package common defines shared constants and sentinel errors used across
// snapshare layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorNotOwner means the authenticated user does not own the snap it
	// tries to mutate.
	ErrorNotOwner = errors.New("not the owner")

	// Validation / signup errors.
	ErrorValidation = errors.New("validation failed")
	ErrorEmailTaken = errors.New("email already registered")

	// Auth errors (missing, malformed, expired, or badly signed token).
	ErrInvalidToken = errors.New("invalid token")
)
