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

// ErrHasDependents indicates that a resource cannot be removed while other records reference it.
var ErrHasDependents = errors.New("resource has dependent records")

// ErrStorageUnavailable indicates that the backing store could not serve the request.
var ErrStorageUnavailable = errors.New("storage unavailable")

// AppError carries a status code and a message alongside the underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and a message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

type modelError struct {
	model string
}

func (e *modelError) Error() string { return e.model }

// NotFound returns an error matching ErrNotFound that remembers which model was missing.
func NotFound(model string) error {
	return fmt.Errorf("%w: %w", ErrNotFound, &modelError{model: model})
}

// ModelName returns the model recorded by NotFound, or "" when there is none.
func ModelName(err error) string {
	var me *modelError
	if errors.As(err, &me) {
		return me.model
	}
	return ""
}

// Validation returns a 422 AppError matching ErrValidation that carries a client-facing message.
func Validation(message string) error {
	return NewAppError(422, message, ErrValidation)
}
