package apperrors

import "fmt"

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message suitable for logging. It unwraps to the underlying error so that
// errors.Is checks against the sentinel errors above keep working.
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

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError that satisfies errors.Is(err, ErrConflict).
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConflict}
}

// NewDuplicateError creates an AppError that satisfies errors.Is(err, ErrDuplicate).
func NewDuplicateError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrDuplicate}
}

// NewValidationFailedError creates an AppError that satisfies errors.Is(err, ErrValidation).
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
