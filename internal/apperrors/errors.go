package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrImbalancedEntry indicates that a journal entry's debit and credit totals differ.
var ErrImbalancedEntry = errors.New("journal entry debits and credits do not balance")

// ErrPeriodClosed indicates that the target fiscal period is closed.
var ErrPeriodClosed = errors.New("fiscal period is closed")

// ErrAlreadyPosted indicates an idempotency violation: the record has already been posted.
var ErrAlreadyPosted = errors.New("record has already been posted")

// ErrAlreadyReversed indicates that the journal entry has already been reversed.
var ErrAlreadyReversed = errors.New("journal entry has already been reversed")

// ErrInternal indicates an unexpected infrastructure or programming failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with a status code and message for
// infrastructure failures surfaced by the repository layer.
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
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
