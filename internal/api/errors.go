// Package api defines the wire-level error contract shared by handlers and
// middleware. Every error response has the same JSON shape and a code
// derived mechanically from the HTTP status.
package api

import (
	"encoding/json"
	"net/http"
)

// ErrorCode is the machine-readable error category.
type ErrorCode string

const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeForbidden          ErrorCode = "forbidden"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed   ErrorCode = "method_not_allowed"
	ErrorCodeConflict           ErrorCode = "conflict"
	ErrorCodeValidationError    ErrorCode = "validation_error"
	ErrorCodeTooManyRequests    ErrorCode = "too_many_requests"
	ErrorCodeInternalError      ErrorCode = "internal_error"
	ErrorCodeServiceUnavailable ErrorCode = "service_unavailable"
	ErrorCodeError              ErrorCode = "error"
)

// ErrorResponse is the shared error payload.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details"`
}

// ValidationIssue is one field-level problem inside a 422 response.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ResolveErrorCode maps an HTTP status code onto the typed error code.
func ResolveErrorCode(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return ErrorCodeBadRequest
	case http.StatusUnauthorized:
		return ErrorCodeUnauthorized
	case http.StatusForbidden:
		return ErrorCodeForbidden
	case http.StatusNotFound:
		return ErrorCodeNotFound
	case http.StatusMethodNotAllowed:
		return ErrorCodeMethodNotAllowed
	case http.StatusConflict:
		return ErrorCodeConflict
	case http.StatusUnprocessableEntity:
		return ErrorCodeValidationError
	case http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	case http.StatusInternalServerError:
		return ErrorCodeInternalError
	case http.StatusServiceUnavailable:
		return ErrorCodeServiceUnavailable
	default:
		return ErrorCodeError
	}
}

// WriteError writes the error contract payload for the given status.
func WriteError(w http.ResponseWriter, status int, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload := ErrorResponse{
		Code:    ResolveErrorCode(status),
		Message: message,
		Details: details,
	}
	// Encoding a flat struct of strings cannot fail; ignore the writer error
	// since the status line is already gone.
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteJSON writes a success payload.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
