package dto

import "net/http"

// Error codes surfaced by the HTTP layer itself
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes not
// listed fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	"INVALID_INPUT":   http.StatusBadRequest,
	"INVALID_PAYLOAD": http.StatusBadRequest,

	"INVALID_AMOUNT":  http.StatusBadRequest,
	"INVALID_REASON":  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusForbidden,
	"INVALID_REVIEWER":  http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	"ALREADY_EXISTS":            http.StatusConflict,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,
	"DUPLICATE_PENDING_REQUEST": http.StatusConflict,
	"ALREADY_PROCESSED":         http.StatusConflict,

	"INSUFFICIENT_FUNDS":       http.StatusUnprocessableEntity,
	"CORRECTION_NOT_BALANCED":  http.StatusUnprocessableEntity,
	"INVALID_CORRECTION_ENTRY": http.StatusUnprocessableEntity,
	"PARTIAL_PAYMENT_PRESENT":  http.StatusUnprocessableEntity,
	"NOTHING_TO_REVERSE":       http.StatusUnprocessableEntity,
	"EXCEEDS_OUTSTANDING":      http.StatusUnprocessableEntity,
	"EXCEEDS_PAID":             http.StatusUnprocessableEntity,
	"INVALID_STATE":            http.StatusUnprocessableEntity,

	"PERSISTENCE_ERROR": http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
