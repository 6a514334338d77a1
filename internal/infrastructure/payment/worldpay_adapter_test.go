package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/occtelecom/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAdapter(t *testing.T, serverURL string) *WorldpayAdapter {
	t.Helper()
	a, err := NewWorldpayAdapter(&config.PaymentConfig{
		BaseURL:       serverURL,
		MerchantID:    "occtelecom",
		Secret:        "gateway-secret",
		Timeout:       5 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	return a
}

func chargeReq() *ChargeRequest {
	return &ChargeRequest{
		Reference: "INV-00000042",
		Amount:    decimal.RequireFromString("33.98"),
		CardToken: "tok_visa",
	}
}

func TestChargeSuccess(t *testing.T) {
	var gotBody worldpayChargeRequest
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "occtelecom", r.Header.Get("X-Merchant-ID"))
		assert.NotEmpty(t, r.Header.Get("X-Signature"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(rw).Encode(worldpayChargeResponse{
			ChargeID:  "wp_7f3a",
			Reference: "INV-00000042",
			Status:    "AUTHORIZED",
		})
	}))
	defer server.Close()

	resp, err := testAdapter(t, server.URL).Charge(context.Background(), chargeReq())

	require.NoError(t, err)
	assert.Equal(t, "wp_7f3a", resp.GatewayRef)
	assert.Equal(t, ChargeStatusPaid, resp.Status)
	assert.Equal(t, int64(3398), gotBody.AmountMinor) // pence
	assert.Equal(t, "GBP", gotBody.Currency)
}

func TestChargeDeclinedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(rw).Encode(worldpayChargeResponse{
			ChargeID:    "wp_0001",
			Status:      "REFUSED",
			DeclineCode: "INSUFFICIENT_FUNDS",
		})
	}))
	defer server.Close()

	resp, err := testAdapter(t, server.URL).Charge(context.Background(), chargeReq())

	assert.ErrorIs(t, err, ErrChargeDeclined)
	require.NotNil(t, resp)
	assert.Equal(t, "INSUFFICIENT_FUNDS", resp.DeclineCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestChargeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			rw.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(rw).Encode(worldpayChargeResponse{ChargeID: "wp_42", Status: "AUTHORIZED"})
	}))
	defer server.Close()

	resp, err := testAdapter(t, server.URL).Charge(context.Background(), chargeReq())

	require.NoError(t, err)
	assert.Equal(t, "wp_42", resp.GatewayRef)
	assert.Equal(t, int32(3), calls.Load())
}

func TestChargeGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		rw.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testAdapter(t, server.URL).Charge(context.Background(), chargeReq())

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestChargeBadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		rw.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := testAdapter(t, server.URL).Charge(context.Background(), chargeReq())

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryChargeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testAdapter(t, server.URL).QueryCharge(context.Background(), &ChargeQuery{GatewayRef: "wp_missing"})
	assert.ErrorIs(t, err, ErrChargeNotFound)
}

func TestVerifyCallback(t *testing.T) {
	a := testAdapter(t, "http://unused")

	payload, err := json.Marshal(worldpayChargeResponse{
		ChargeID:    "wp_7f3a",
		Reference:   "INV-00000042",
		Status:      "SETTLED",
		AmountMinor: 3398,
		PaidAt:      "2026-03-25T10:30:00Z",
	})
	require.NoError(t, err)

	t.Run("valid signature", func(t *testing.T) {
		cb, err := a.VerifyCallback(payload, a.Sign(payload))

		require.NoError(t, err)
		assert.Equal(t, "wp_7f3a", cb.GatewayRef)
		assert.Equal(t, ChargeStatusPaid, cb.Status)
		assert.True(t, cb.Amount.Equal(decimal.RequireFromString("33.98")))
		require.NotNil(t, cb.PaidAt)
		assert.Equal(t, 2026, cb.PaidAt.Year())
	})

	t.Run("tampered payload", func(t *testing.T) {
		sig := a.Sign(payload)
		tampered := append([]byte{}, payload...)
		tampered[len(tampered)-2] = 'X'

		_, err := a.VerifyCallback(tampered, sig)
		assert.ErrorIs(t, err, ErrInvalidCallback)
	})

	t.Run("empty signature", func(t *testing.T) {
		_, err := a.VerifyCallback(payload, "")
		assert.ErrorIs(t, err, ErrInvalidCallback)
	})
}

func TestNewWorldpayAdapterValidation(t *testing.T) {
	_, err := NewWorldpayAdapter(&config.PaymentConfig{MerchantID: "m"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewWorldpayAdapter(&config.PaymentConfig{BaseURL: "http://x"}, zap.NewNop())
	assert.Error(t, err)
}
