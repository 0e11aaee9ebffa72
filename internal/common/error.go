// Package common defines shared constants and sentinel errors used across
// the server and client layers of handlekeeper. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Caller input is incomplete.
	ErrValidation = errors.New("validation error")

	// Uniqueness violations, raised by pre-insert checks and by the store.
	ErrHandleTaken = errors.New("handle already exists")
	ErrEmailTaken  = errors.New("email already exists")

	// Unknown identifier or wrong password. Both cases share this value.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// The server has no signing secret.
	ErrSecretNotConfigured = errors.New("signing secret not configured")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
