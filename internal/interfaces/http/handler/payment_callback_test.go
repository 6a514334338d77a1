package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	billingapp "github.com/occtelecom/backend/internal/application/billing"
	"github.com/occtelecom/backend/internal/infrastructure/payment"
)

// stubGateway verifies callbacks with a fixed outcome
type stubGateway struct {
	callback *payment.Callback
	err      error
}

func (g *stubGateway) Charge(ctx context.Context, req *payment.ChargeRequest) (*payment.ChargeResponse, error) {
	return nil, nil
}

func (g *stubGateway) QueryCharge(ctx context.Context, q *payment.ChargeQuery) (*payment.ChargeResponse, error) {
	return nil, nil
}

func (g *stubGateway) VerifyCallback(payload []byte, signature string) (*payment.Callback, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.callback, nil
}

func callbackEngine(gateway payment.Gateway) *gin.Engine {
	svc := billingapp.NewPaymentService(nil, nil, nil, gateway, nil, zap.NewNop())
	h := NewPaymentCallbackHandler(svc, zap.NewNop())
	return newTestEngine(h)
}

func TestCallbackMissingSignature(t *testing.T) {
	engine := callbackEngine(&stubGateway{})

	rec := perform(t, engine, http.MethodPost, "/payments/callback", strings.NewReader(`{}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallbackBadSignature(t *testing.T) {
	engine := callbackEngine(&stubGateway{err: payment.ErrInvalidCallback})

	req := httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(`{}`))
	req.Header.Set(SignatureHeader, "bogus")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}
