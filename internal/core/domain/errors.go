package domain

import "errors"

// Sentinel errors returned by the service layer. The HTTP error handler maps
// each of these to a deterministic status code; anything else becomes a 500.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")

	// ErrDemoNotFound covers both a missing demo and a private demo read by a
	// non-owner. The two cases are indistinguishable on purpose: a 404 must not
	// confirm that a private demo exists.
	ErrDemoNotFound = errors.New("demo not found")

	ErrStepNotFound       = errors.New("step not found")
	ErrHotspotNotFound    = errors.New("hotspot not found")
	ErrTargetStepNotFound = errors.New("target step not found")

	ErrForbidden    = errors.New("access forbidden")
	ErrSlugConflict = errors.New("slug already taken")
	ErrValidation   = errors.New("validation failed")
)
