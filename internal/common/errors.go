// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values;
// the HTTP layer alone translates them into status codes.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Login errors. A single sentinel covers both unknown username and
	// wrong password so the two cases stay indistinguishable externally.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")

	// User resolution errors.
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("inactive user")
)
