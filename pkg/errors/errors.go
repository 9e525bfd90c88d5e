package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Is reports whether target is an *AppError with the same code, so callers
// can match with errors.Is(err, errors.InvalidTier) regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// StatusCode maps the error code to the HTTP status returned to the client.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrMalformedRequest, ErrInvalidTier, ErrInvalidQuantity, ErrUnknownService:
		return http.StatusBadRequest
	case ErrUnauthorizedOrigin:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrMalformedRequest ErrorCode = iota + 1000
	ErrInvalidTier
	ErrInvalidQuantity
	ErrUnknownService
	ErrUnauthorizedOrigin
	ErrMethodNotAllowed
	ErrPayloadTooLarge
	ErrRateLimited
	ErrInternal
	ErrNotFound
)

var codeNames = map[ErrorCode]string{
	ErrMalformedRequest:   "malformed_request",
	ErrInvalidTier:        "invalid_tier",
	ErrInvalidQuantity:    "invalid_quantity",
	ErrUnknownService:     "unknown_service",
	ErrUnauthorizedOrigin: "unauthorized_origin",
	ErrMethodNotAllowed:   "method_not_allowed",
	ErrPayloadTooLarge:    "payload_too_large",
	ErrRateLimited:        "rate_limited",
	ErrInternal:           "internal",
	ErrNotFound:           "not_found",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code_%d", int(c))
}

// Sentinels for errors.Is matching.
var (
	MalformedRequest   = &AppError{Code: ErrMalformedRequest}
	InvalidTier        = &AppError{Code: ErrInvalidTier}
	InvalidQuantity    = &AppError{Code: ErrInvalidQuantity}
	UnknownService     = &AppError{Code: ErrUnknownService}
	UnauthorizedOrigin = &AppError{Code: ErrUnauthorizedOrigin}
	Internal           = &AppError{Code: ErrInternal}
)

// Error constructors
func NewMalformedRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrMalformedRequest,
		Message: message,
		Err:     err,
	}
}

func NewInvalidTier(tier string) *AppError {
	return &AppError{
		Code:    ErrInvalidTier,
		Message: fmt.Sprintf("invalid time slot: %q", tier),
	}
}

func NewInvalidQuantity(quantity string) *AppError {
	return &AppError{
		Code:    ErrInvalidQuantity,
		Message: fmt.Sprintf("invalid quantity: %s", quantity),
	}
}

func NewUnknownService(id string) *AppError {
	return &AppError{
		Code:    ErrUnknownService,
		Message: fmt.Sprintf("invalid service ID: %q", id),
	}
}

func NewUnauthorizedOrigin(origin string) *AppError {
	return &AppError{
		Code:    ErrUnauthorizedOrigin,
		Message: "access denied: unauthorized origin",
		Err:     fmt.Errorf("origin %q is not allowed", origin),
	}
}

func NewMethodNotAllowed() *AppError {
	return &AppError{
		Code:    ErrMethodNotAllowed,
		Message: "Method not allowed",
	}
}

func NewNotFound() *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: "Not found",
	}
}

func NewPayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code:    ErrPayloadTooLarge,
		Message: fmt.Sprintf("request body exceeds %d bytes", limit),
	}
}

func NewRateLimited() *AppError {
	return &AppError{
		Code:    ErrRateLimited,
		Message: "rate limit exceeded",
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "Internal server error",
		Err:     err,
	}
}
