package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrForbidden indicates that an operation is not allowed in the current state,
// e.g. a restore attempted after the restore window has expired.
var ErrForbidden = errors.New("operation not allowed")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrImbalanced indicates that a voucher's line items do not balance
// (debit total != credit total under exact decimal comparison).
var ErrImbalanced = errors.New("voucher line items do not balance")

// ErrInvalidReference indicates that a request referenced an unknown account
// or an unknown line-item ref/ID.
var ErrInvalidReference = errors.New("invalid reference")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrTransactionFailure indicates that the underlying persistence transaction
// aborted. The mutation was not applied, partially or otherwise.
var ErrTransactionFailure = errors.New("transaction failure")

// AppError wraps a lower-level error with a status code and a stable message.
// Repositories use it so that persistence error text never reaches callers.
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewTransactionError creates an AppError that matches errors.Is(err, ErrTransactionFailure).
func NewTransactionError(message string, err error) *AppError {
	return &AppError{Code: 500, Message: message, Err: fmt.Errorf("%w: %w", ErrTransactionFailure, err)}
}
