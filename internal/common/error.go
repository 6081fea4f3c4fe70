// Package common defines shared sentinel errors used across the videotube
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorValidation         = errors.New("validation error")

	// Token lifecycle errors.
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")

	// ErrTokenReused signals a refresh token that no longer matches the
	// persisted value for its user: either it was already rotated away
	// (replay of an old token) or the session was logged out.
	ErrTokenReused = errors.New("refresh token is expired or used")
)
