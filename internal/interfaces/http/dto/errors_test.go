package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"SLOT_FULL", http.StatusConflict},
		{"PAYMENT_DECLINED", http.StatusPaymentRequired},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		// Business rule violations default to 422
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"TICKET_CLOSED", http.StatusUnprocessableEntity},
		{"SOME_FUTURE_CODE", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}
