package models

import (
	"errors"
	"fmt"
)

// ValidationError means the user's input was malformed. No state changed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError. The message is shown to the user
// as-is, so keep it corrective ("Format: +sale [amount] [description]").
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NotFoundError means a referenced id or key does not exist. No state changed.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return e.What + " not found" }

func NotFound(what string) error { return &NotFoundError{What: what} }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// StoreError wraps a persistence failure. Callers at the reply boundary
// convert it to a truncated user-facing string and abandon the operation;
// there are no retries.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Storef wraps err as a StoreError unless it is nil or already one.
func Storef(op string, err error) error {
	if err == nil {
		return nil
	}
	var s *StoreError
	if errors.As(err, &s) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsStore reports whether err is a StoreError.
func IsStore(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}

// ErrStaleSession marks a correction reply that arrived after the session
// TTL. It is never shown to the user; the reply falls through to ordinary
// classification instead.
var ErrStaleSession = errors.New("correction session expired")
