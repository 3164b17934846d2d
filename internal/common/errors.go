// Package common defines shared constants and sentinel errors used across
// TaskKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Input validation errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation error")

	// Account errors. Unknown email and wrong password both map to
	// ErrInvalidCredentials.
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Import payload could not be coerced into tasks.
	ErrImport = errors.New("import error")

	// Key derivation called with nonsensical cost parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)
