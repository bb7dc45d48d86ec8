package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the session store, the refresher, the request
// dispatcher and the lifecycle controller.
var (
	// Request errors
	ErrTransport        = errors.New("transport error")
	ErrAuthRejected     = errors.New("credential rejected")
	ErrUnexpectedStatus = errors.New("unexpected status")

	// Credential errors
	ErrMissingCredential  = errors.New("missing refresh credential")
	ErrRefreshRejected    = errors.New("refresh rejected")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session errors
	ErrNotAuthenticated = errors.New("session not authenticated")
	ErrStorage          = errors.New("session storage error")

	// Backend errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserInactive        = errors.New("user is inactive")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Join wraps a sentinel together with the error that caused it so both match
// errors.Is.
func Join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Combine joins every non-nil error into one; it returns nil when all are nil.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
