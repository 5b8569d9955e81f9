// Package common defines shared constants and sentinel errors used across
// the homehistory server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Request/validation errors.
	ErrBadRequest = errors.New("bad request")

	// Authentication/authorization errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Upload-flow errors. A failed metadata persist after a successful
	// direct transfer leaves an orphaned object in storage; both are
	// retryable only by restarting the whole flow from credential issuance.
	ErrTransferFailed = errors.New("upstream transfer failed")
	ErrPersistFailed  = errors.New("persistence failed")

	// Auth token errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
