// Package errors provides the base error classes shared by every token module.
// Domain packages wrap these sentinels so callers can classify a failure without
// depending on the concrete domain error.
package errors

import (
	"errors"
	"fmt"
)

// Base error classes.
var (
	// ErrNotFound indicates a referenced resource (for example a key id) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is malformed or cannot be processed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the input failed an integrity or authenticity check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMisconfigured indicates the process was started with unusable configuration.
	ErrMisconfigured = errors.New("misconfigured")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
