package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidState indicates that the referenced entity exists but is in the
// wrong type or lifecycle stage for the requested operation.
var ErrInvalidState = errors.New("entity in invalid state for operation")

// ErrAlreadySettled indicates that a deferred transaction has already been
// settled. Surfaced distinctly from ErrConflict so UIs can show "already
// processed" instead of a generic failure.
var ErrAlreadySettled = errors.New("transaction already settled")

// ErrConflict indicates an idempotency or uniqueness violation.
var ErrConflict = errors.New("conflicting operation")

// ErrInsufficientStock indicates a deduction request exceeded the available
// stock pool. Aborts the whole operation; never retried.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrStorageUnavailable indicates an infrastructure failure talking to the
// relational store. The only class the resilience client may retry.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with a code and message for logging.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(_, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
