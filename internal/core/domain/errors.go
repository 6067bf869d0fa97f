package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidProduct     = errors.New("invalid product")
)

// ValidationError reports malformed input caught before any I/O.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError reports a rejection of the caller's identity: bad credentials or
// an expired/invalid token.
type AuthError struct {
	Message string
	Err     error
}

func NewAuthError(msg string) *AuthError {
	return &AuthError{Message: msg}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// ConnectivityError means no response reached the caller: dial failures,
// resets and timeouts. It is the only class eligible for auth mock fallback.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ServerError is a failure response from the remote API. Message is the
// server-provided message and may be empty.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded with status %d", e.Status)
	}
	return e.Message
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func IsConnectivity(err error) bool {
	var target *ConnectivityError
	return errors.As(err, &target)
}

func IsServer(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

// UserMessage returns the text a UI should display for err: the server or
// validation message when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var (
		ve *ValidationError
		ae *AuthError
		se *ServerError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ae) && ae.Message != "":
		return ae.Message
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	}
	return fallback
}
