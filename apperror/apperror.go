// Package apperror defines the error taxonomy shared by the store and
// the HTTP layer. Handlers match the sentinel with errors.Is and turn
// the message into the response envelope verbatim.
package apperror

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrExpired      = errors.New("expired")
	ErrInvalidCode  = errors.New("invalid code")
	ErrUpstream     = errors.New("upstream failure")
)

type AppError struct {
	Err     error  // taxonomy sentinel
	Message string // human-readable, sent to the client as-is
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

func Expired(message string) *AppError {
	return &AppError{Err: ErrExpired, Message: message}
}

func InvalidCode(message string) *AppError {
	return &AppError{Err: ErrInvalidCode, Message: message}
}

func Upstream(message string) *AppError {
	return &AppError{Err: ErrUpstream, Message: message}
}
