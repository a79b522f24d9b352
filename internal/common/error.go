// Package common defines shared constants and sentinel errors used across
// client and server layers of ShareBox. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")

	// Access decisions. These are terminal for the request.
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidVisibility      = errors.New("access must be one of public, private, password")
	ErrInvalidCredential      = errors.New("a valid password is required")
	ErrCredentialMismatch     = errors.New("password mismatch")

	// ErrStorageUnavailable marks byte store I/O failures. It is the only
	// error class a caller may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// IsRetryable reports whether err may succeed when the request is repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
