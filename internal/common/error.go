// Package common defines shared constants and sentinel errors used across
// repository, service and transport layers of gophnotes. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	// ErrorDuplicateToken means a freshly generated API token collided with
	// a stored one; callers generate a new token and retry.
	ErrorDuplicateToken = errors.New("api token already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation failed")
	ErrBadRequest   = errors.New("bad request")

	// Auth errors.
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validation messages shared by services.
const (
	MsgBlank = "can't be blank"
	MsgTaken = "has already been taken"
)
