// Package apierror defines the typed error carried from handlers and middleware to the
// response writer. Every APIError knows the HTTP status it should be rendered with.
package apierror

import (
	"errors"
	"net/http"
)

// UnauthorizedServiceMessage is the only message a caller ever sees for a rejected
// service token, whatever the underlying cause.
const UnauthorizedServiceMessage = "Unauthorized. Please provide a valid service token."

const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeMissingCredential   = "MISSING_CREDENTIAL"
	CodeInvalidCredential   = "INVALID_CREDENTIAL"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeUnprocessableEntity = "UNPROCESSABLE_ENTITY"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeInternal            = "INTERNAL_ERROR"
	CodeBadGateway          = "BAD_GATEWAY"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Cause   error  `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the internal cause for logging. It is never rendered.
func (e *APIError) Unwrap() error {
	return e.Cause
}

func New(status int, code, message string, cause error) *APIError {
	return &APIError{Code: code, Message: message, Status: status, Cause: cause}
}

// MissingCredential is returned when no service token was presented.
func MissingCredential() *APIError {
	return New(http.StatusUnauthorized, CodeMissingCredential, UnauthorizedServiceMessage, nil)
}

// InvalidCredential is returned when a presented service token failed verification.
func InvalidCredential(cause error) *APIError {
	return New(http.StatusUnauthorized, CodeInvalidCredential, UnauthorizedServiceMessage, cause)
}

func NewBadRequest(message string) *APIError {
	return New(http.StatusBadRequest, CodeBadRequest, message, nil)
}

func NewUnauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func NewNotFound(message string) *APIError {
	return New(http.StatusNotFound, CodeNotFound, message, nil)
}

func NewConflict(message string) *APIError {
	return New(http.StatusConflict, CodeConflict, message, nil)
}

func NewUnprocessableEntity(message string) *APIError {
	return New(http.StatusUnprocessableEntity, CodeUnprocessableEntity, message, nil)
}

func NewTooManyRequests(message string) *APIError {
	return New(http.StatusTooManyRequests, CodeTooManyRequests, message, nil)
}

func NewInternalServer(message string, cause error) *APIError {
	return New(http.StatusInternalServerError, CodeInternal, message, cause)
}

func NewBadGateway(message string, cause error) *APIError {
	return New(http.StatusBadGateway, CodeBadGateway, message, cause)
}

// HasCode reports whether err is an APIError with the given code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// MapError returns err as an APIError, falling back to a generic 500 that keeps the
// original error as its cause.
func MapError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalServer("An unexpected error occurred", err)
}
