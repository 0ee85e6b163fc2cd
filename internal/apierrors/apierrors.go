package apierrors

import (
	"net/http"

	"github.com/taskhub-dev/taskhub/internal/types"
)

// APIError is a request-terminal failure with a fixed HTTP status. Store
// errors are translated into one of these at the handler boundary and never
// leaked raw.
type APIError struct {
	Status  int
	Message string
	Fields  []types.FieldError
}

func (e *APIError) Error() string {
	return e.Message
}

func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func Validation(fields []types.FieldError) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: "Validation error",
		Fields:  fields,
	}
}

func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

// Conflict reports a duplicate unique field. Kept at 400 to match the
// public API contract.
func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}
