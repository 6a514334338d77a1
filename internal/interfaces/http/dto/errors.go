package dto

import "net/http"

// Error codes used by the HTTP layer itself
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 422: a domain error that reached the
// HTTP layer is a business rule violation, not a server fault.
var errorCodeHTTPStatus = map[string]int{
	// HTTP layer codes
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInternal:     http.StatusInternalServerError,

	// Lookups and duplicates
	"ALREADY_EXISTS":       http.StatusConflict,
	"MANDATE_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SLOT_FULL":            http.StatusConflict,

	// Authentication and access
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"RATE_LIMIT_EXCEEDED": http.StatusTooManyRequests,

	// Payments
	"PAYMENT_DECLINED": http.StatusPaymentRequired,

	// Malformed input that passed binding but failed domain validation
	"INVALID_INPUT": http.StatusBadRequest,
	"INVALID_RANGE": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
