package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/occtelecom/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const worldpayTimeLayout = time.RFC3339

// WorldpayAdapter implements Gateway against the Worldpay-style REST API.
// Requests are JSON bodies signed with HMAC-SHA256 over the raw payload.
type WorldpayAdapter struct {
	baseURL       string
	merchantID    string
	secret        []byte
	retryAttempts int
	retryDelay    time.Duration
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewWorldpayAdapter creates a new adapter from configuration
func NewWorldpayAdapter(cfg *config.PaymentConfig, logger *zap.Logger) (*WorldpayAdapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("payment.base_url is required")
	}
	if cfg.MerchantID == "" {
		return nil, fmt.Errorf("payment.merchant_id is required")
	}

	return &WorldpayAdapter{
		baseURL:       cfg.BaseURL,
		merchantID:    cfg.MerchantID,
		secret:        []byte(cfg.Secret),
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

type worldpayChargeRequest struct {
	MerchantID  string `json:"merchant_id"`
	Reference   string `json:"reference"`
	AmountMinor int64  `json:"amount_minor"` // pence
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	CardToken   string `json:"card_token"`
}

type worldpayChargeResponse struct {
	ChargeID    string `json:"charge_id"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	AmountMinor int64  `json:"amount_minor"`
	DeclineCode string `json:"decline_code,omitempty"`
	DeclineNote string `json:"decline_note,omitempty"`
	PaidAt      string `json:"paid_at,omitempty"`
}

// Charge attempts to collect a payment with linear backoff on transport
// failures. Declines are not retried.
func (w *WorldpayAdapter) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if req.Reference == "" || req.CardToken == "" {
		return nil, fmt.Errorf("%w: reference and card token are required", ErrRequestFailed)
	}
	currency := req.Currency
	if currency == "" {
		currency = "GBP"
	}

	body := worldpayChargeRequest{
		MerchantID:  w.merchantID,
		Reference:   req.Reference,
		AmountMinor: req.Amount.Shift(2).IntPart(),
		Currency:    currency,
		Description: req.Description,
		CardToken:   req.CardToken,
	}

	respBody, err := w.doRequestWithRetry(ctx, http.MethodPost, "/v1/charges", body)
	if err != nil {
		return nil, err
	}

	return w.parseChargeResponse(respBody)
}

// QueryCharge fetches the current status of a charge
func (w *WorldpayAdapter) QueryCharge(ctx context.Context, q *ChargeQuery) (*ChargeResponse, error) {
	path := ""
	switch {
	case q.GatewayRef != "":
		path = "/v1/charges/" + q.GatewayRef
	case q.Reference != "":
		path = "/v1/charges/by-reference/" + q.Reference
	default:
		return nil, fmt.Errorf("%w: gateway ref or reference required", ErrRequestFailed)
	}

	respBody, err := w.doRequestWithRetry(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := w.parseChargeResponse(respBody)
	if err != nil && resp == nil {
		return nil, err
	}
	// A declined charge is a valid query result
	return resp, nil
}

// VerifyCallback checks the HMAC signature and parses the notification
func (w *WorldpayAdapter) VerifyCallback(payload []byte, signature string) (*Callback, error) {
	if !w.verifySignature(payload, signature) {
		return nil, ErrInvalidCallback
	}

	var notif worldpayChargeResponse
	if err := json.Unmarshal(payload, &notif); err != nil {
		return nil, fmt.Errorf("worldpay: failed to parse callback: %w", err)
	}

	cb := &Callback{
		GatewayRef: notif.ChargeID,
		Reference:  notif.Reference,
		Status:     mapWorldpayStatus(notif.Status),
		Amount:     decimal.New(notif.AmountMinor, -2),
		RawPayload: string(payload),
	}
	if notif.PaidAt != "" {
		if t, err := time.Parse(worldpayTimeLayout, notif.PaidAt); err == nil {
			cb.PaidAt = &t
		}
	}

	return cb, nil
}

// Sign computes the hex HMAC-SHA256 signature over a payload. Exposed so
// tests and the provider simulator can produce valid callbacks.
func (w *WorldpayAdapter) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, w.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (w *WorldpayAdapter) verifySignature(payload []byte, signature string) bool {
	expected := w.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// doRequestWithRetry performs the HTTP call, retrying transport failures
// and 5xx responses with a linear backoff. 4xx responses are not retried.
func (w *WorldpayAdapter) doRequestWithRetry(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("worldpay: failed to marshal request: %w", err)
		}
	}

	attempts := w.retryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * w.retryDelay):
			}
			w.logger.Warn("retrying gateway request",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
		}

		respBody, retryable, err := w.doRequest(ctx, method, path, payload)
		if err == nil {
			return respBody, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (w *WorldpayAdapter) doRequest(ctx context.Context, method, path string, payload []byte) (respBody []byte, retryable bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, w.baseURL+path, reader)
	if err != nil {
		return nil, false, fmt.Errorf("worldpay: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Merchant-ID", w.merchantID)
	if payload != nil {
		req.Header.Set("X-Signature", w.Sign(payload))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("worldpay: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrChargeNotFound
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: HTTP %d", ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, respBody)
	}

	return respBody, false, nil
}

func (w *WorldpayAdapter) parseChargeResponse(respBody []byte) (*ChargeResponse, error) {
	var raw worldpayChargeResponse
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("worldpay: failed to parse response: %w", err)
	}

	resp := &ChargeResponse{
		GatewayRef:  raw.ChargeID,
		Status:      mapWorldpayStatus(raw.Status),
		DeclineCode: raw.DeclineCode,
		DeclineNote: raw.DeclineNote,
		RawResponse: string(respBody),
	}

	if resp.Status == ChargeStatusDeclined {
		return resp, fmt.Errorf("%w: %s", ErrChargeDeclined, raw.DeclineCode)
	}
	return resp, nil
}

func mapWorldpayStatus(status string) ChargeStatus {
	switch status {
	case "AUTHORIZED", "SETTLED", "paid":
		return ChargeStatusPaid
	case "REFUSED", "declined":
		return ChargeStatusDeclined
	case "ERROR", "failed":
		return ChargeStatusFailed
	default:
		return ChargeStatusPending
	}
}

var _ Gateway = (*WorldpayAdapter)(nil)
