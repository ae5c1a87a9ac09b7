package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of a
// resource (e.g. a concurrent writer got there first). Callers may retry.
var ErrConflict = errors.New("resource conflict")

// ErrForbidden indicates the authenticated user lacks the capability required
// for the operation.
var ErrForbidden = errors.New("operation forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
