// Package common defines shared constants and sentinel errors used across
// PlaceKeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Signup-specific: an account with the same email already exists.
	ErrorAlreadyExists = errors.New("already exists")

	// Input failed shape validation before any store access.
	ErrorValidation = errors.New("validation error")

	// Asset-specific: unsupported mime type or size limit exceeded.
	ErrorAssetRejected = errors.New("asset rejected")

	// Transient upstream failure (geocoder or store); safe to retry.
	ErrorUnavailable = errors.New("temporarily unavailable")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
