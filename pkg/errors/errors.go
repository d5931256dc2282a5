// Package errors defines the API error envelope codes and their HTTP status.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidationError         = "VALIDATION_ERROR"
	CodeBadRequest              = "BAD_REQUEST"
	CodeScanRequired            = "SCAN_REQUIRED"
	CodeUnsupportedMediaType    = "INVALID_CONTENT_TYPE"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "RESOURCE_NOT_FOUND"
	CodeConflict                = "CONFLICT"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeConcurrentModification  = "CONCURRENT_MODIFICATION"
	CodeScanMismatch            = "SCAN_MISMATCH"
	CodeInternalError           = "INTERNAL_ERROR"
	CodeServiceUnavailable      = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	CodeValidationError:         http.StatusBadRequest,
	CodeBadRequest:              http.StatusBadRequest,
	CodeScanRequired:            http.StatusBadRequest,
	CodeUnsupportedMediaType:    http.StatusUnsupportedMediaType,
	CodeUnauthorized:            http.StatusUnauthorized,
	CodeForbidden:               http.StatusForbidden,
	CodeNotFound:                http.StatusNotFound,
	CodeConflict:                http.StatusConflict,
	CodeInvalidStatusTransition: http.StatusConflict,
	CodeConcurrentModification:  http.StatusConflict,
	CodeScanMismatch:            http.StatusUnprocessableEntity,
	CodeInternalError:           http.StatusInternalServerError,
	CodeServiceUnavailable:      http.StatusServiceUnavailable,
}

// AppError is an error that knows how it is rendered to API clients. Err
// is logged but never sent.
type AppError struct {
	Code       string
	Message    string
	Details    map[string]string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds one entry to the details map
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap records the cause
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// New creates an error whose status follows from code. Unknown codes are
// treated as bad requests.
func New(code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusBadRequest
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func ErrValidation(message string) *AppError {
	return New(CodeValidationError, message)
}

// ErrValidationWithFields reports one message per offending field
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	err := ErrValidation(message)
	err.Details = fields
	return err
}

func ErrBadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func ErrNotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func ErrNotFoundWithID(resource, id string) *AppError {
	return ErrNotFound(resource).WithDetail("id", id)
}

func ErrConflict(message string) *AppError {
	return New(CodeConflict, message)
}

func ErrInvalidStatusTransition(message string) *AppError {
	return New(CodeInvalidStatusTransition, message)
}

// ErrConcurrentModification is returned when an optimistic version check fails
func ErrConcurrentModification(resource string) *AppError {
	return New(CodeConcurrentModification, resource+" was modified by another request, reload and retry")
}

// ErrUnprocessable reports a well-formed request that cannot be applied
func ErrUnprocessable(code, message string) *AppError {
	err := New(code, message)
	err.HTTPStatus = http.StatusUnprocessableEntity
	return err
}

func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return New(CodeUnauthorized, message)
}

func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return New(CodeForbidden, message)
}

func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return New(CodeInternalError, message)
}

func ErrServiceUnavailable(dependency string) *AppError {
	return New(CodeServiceUnavailable, dependency+" is temporarily unavailable")
}

// AsAppError finds an AppError anywhere in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError returns err's AppError, or an internal error wrapping err
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return ErrInternal("").Wrap(err)
}
