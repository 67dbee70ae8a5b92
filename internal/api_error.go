package internal

import (
	"errors"
	"net/http"
)

// APIError kinds.
const (
	KindValueInvalid        = "value:invalid"
	KindValueNotFound       = "value:notfound"
	KindValueConflict       = "value:conflict"
	KindPermissionForbidden = "permission:forbidden"
)

// APIError is a domain error returned by an endpoint.
// The dispatcher converts it into the JSON envelope {error, data, message}.
type APIError struct {
	Kind    string
	Data    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Message
}

// Status maps the error kind to an HTTP status code.
func (e *APIError) Status() int {
	switch e.Kind {
	case KindValueNotFound:
		return http.StatusNotFound
	case KindPermissionForbidden:
		return http.StatusForbidden
	case KindValueConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// NewAPIError creates an APIError of an arbitrary kind.
func NewAPIError(kind, data, message string) *APIError {
	return &APIError{Kind: kind, Data: data, Message: message}
}

// ValueError reports invalid input for field.
func ValueError(field, message string) *APIError {
	return &APIError{Kind: KindValueInvalid, Data: field, Message: message}
}

// NotFoundError reports that the referenced resource does not exist.
func NotFoundError(field, message string) *APIError {
	return &APIError{Kind: KindValueNotFound, Data: field, Message: message}
}

// ConflictError reports a uniqueness or state conflict.
func ConflictError(field, message string) *APIError {
	return &APIError{Kind: KindValueConflict, Data: field, Message: message}
}

// PermissionError reports a forbidden action.
func PermissionError(message string) *APIError {
	if message == "" {
		message = "permission forbidden"
	}
	return &APIError{Kind: KindPermissionForbidden, Data: "permission", Message: message}
}

// AsAPIError extracts an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ErrorEnvelope maps an APIError to its wire form.
func ErrorEnvelope(e *APIError) map[string]any {
	return map[string]any{
		"error":   e.Kind,
		"data":    e.Data,
		"message": e.Message,
	}
}
