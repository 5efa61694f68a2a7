package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure kinds the service layer produces.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrStorage            = errors.New("storage failure")
	ErrPartialConsistency = errors.New("partial consistency failure")
	ErrInternal           = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing entity.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error for a uniqueness violation.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// Validation creates a 400 error for a field constraint violation.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Unauthenticated creates a 401 error for operations requiring a principal.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHENTICATED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthenticated,
	}
}

// NotOwner creates a 403 error for an ownership check failure.
func NotOwner(resource string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: fmt.Sprintf("not owner of %s", resource),
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Storage creates a 502 error for a blob upload/delete failure.
func Storage(op string, err error) *AppError {
	return &AppError{
		Code:    "STORAGE_FAILURE",
		Message: fmt.Sprintf("storage %s failed", op),
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
	}
}

// PartialConsistency marks a multi-step cascade that completed its primary
// write but left one or more dependent reference updates unapplied. It is
// logged by callers, never rolled back.
func PartialConsistency(op string, err error) *AppError {
	return &AppError{
		Code:    "PARTIAL_CONSISTENCY",
		Message: fmt.Sprintf("%s left stale references", op),
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrPartialConsistency, err),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPartialConsistency reports whether err wraps ErrPartialConsistency.
func IsPartialConsistency(err error) bool {
	return errors.Is(err, ErrPartialConsistency)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrStorage):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
