package apperrors

import (
	"errors"
	"fmt"
)

// Error is the typed failure surfaced by services to the HTTP layer.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// NotFound reports that a referenced entity is absent.
func NotFound(resource string) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Conflict reports a duplicate value on a unique field.
func Conflict(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Validation reports malformed input.
func Validation(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Internal wraps an unexpected storage or dependency failure.
func Internal(err error) error {
	return &Error{Code: CodeInternal, Message: "An internal error occurred", Err: err}
}

// Code extracts the error code, defaulting to CodeInternal for foreign errors.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Message returns the client-safe message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An internal error occurred"
}

func IsNotFound(err error) bool     { return err != nil && Code(err) == CodeNotFound }
func IsConflict(err error) bool     { return err != nil && Code(err) == CodeConflict }
func IsValidation(err error) bool   { return err != nil && Code(err) == CodeValidation }
func IsUnauthorized(err error) bool { return err != nil && Code(err) == CodeUnauthorized }
func IsInternal(err error) bool     { return err != nil && Code(err) == CodeInternal }
