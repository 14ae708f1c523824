// Package apperr defines the typed domain errors raised by the storage
// repositories and services. Handlers translate them to HTTP status codes
// with errors.Is / errors.As instead of matching on message strings.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound signals an unknown client or investment id/email.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned by authentication regardless of whether
// the email is unknown or the password is wrong, so the two cases are
// indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrPasswordBreached rejects a password found in a known data breach.
var ErrPasswordBreached = errors.New("password found in a known data breach")

// ConflictError signals a uniqueness violation on a client field.
type ConflictError struct {
	Field string // "email" or "telefone"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// WeakPasswordError rejects a password that is too short or deny-listed.
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + e.Reason
}

// InsufficientFundsError signals that an investment exceeds the client's
// investable balance. Both amounts are carried so the message tells the
// caller what was available and what was requested.
type InsufficientFundsError struct {
	Available float64
	Requested float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %.2f, requested %.2f", e.Available, e.Requested)
}
