package dto

import "net/http"

// Error codes shared between domain errors and the HTTP boundary
const (
	// ErrCodeInternal is used for unexpected server-side failures
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeNotFound is used when a resource does not exist
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeTemplateNotFound is used when no notification template matches
	ErrCodeTemplateNotFound = "TEMPLATE_NOT_FOUND"
	// ErrCodeAlreadyExists is used when creating a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeInvalidInput is used for malformed or invalid request data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidState is used when an operation conflicts with current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeRateLimited is used when the request rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeTemplateNotFound: http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
}

// HTTPStatus returns the HTTP status for an error code, defaulting to 500
func HTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
