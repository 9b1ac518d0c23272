// Package apperrors defines the error kinds raised by the service layer and
// translated to HTTP responses by the handlers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)

type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExists(format string, args ...interface{}) error {
	return &Error{Kind: ErrAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func InvalidCredentials() error {
	return &Error{Kind: ErrInvalidCredentials, Message: "Invalid username or password"}
}

// Validation carries per-field messages keyed by the JSON field name.
func Validation(fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: "Validation error", Fields: fields}
}

// FieldsOf returns the field errors attached to err, or nil.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
