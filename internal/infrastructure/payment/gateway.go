package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Common gateway errors
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrRequestFailed      = errors.New("payment gateway request failed")
	ErrChargeDeclined     = errors.New("charge declined")
	ErrInvalidCallback    = errors.New("invalid payment callback signature")
	ErrChargeNotFound     = errors.New("charge not found")
)

// ChargeStatus is the gateway-side status of a charge
type ChargeStatus string

const (
	ChargeStatusPending  ChargeStatus = "pending"
	ChargeStatusPaid     ChargeStatus = "paid"
	ChargeStatusDeclined ChargeStatus = "declined"
	ChargeStatusFailed   ChargeStatus = "failed"
)

// ChargeRequest describes a card charge to be taken
type ChargeRequest struct {
	Reference   string          // our invoice number, unique per charge
	Amount      decimal.Decimal // in pounds
	Currency    string
	Description string
	CardToken   string // tokenized card from the storefront
}

// ChargeResponse is the gateway's answer to a charge
type ChargeResponse struct {
	GatewayRef  string
	Status      ChargeStatus
	DeclineCode string
	DeclineNote string
	RawResponse string
}

// ChargeQuery looks up an earlier charge
type ChargeQuery struct {
	GatewayRef string
	Reference  string
}

// Callback is a verified payment notification pushed by the gateway
type Callback struct {
	GatewayRef string
	Reference  string
	Status     ChargeStatus
	Amount     decimal.Decimal
	PaidAt     *time.Time
	RawPayload string
}

// Gateway abstracts the card payment provider
type Gateway interface {
	// Charge attempts to collect a payment. Transport failures are
	// retried; a decline is returned as ErrChargeDeclined with the
	// decline details in the response.
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)
	// QueryCharge fetches the current status of a charge
	QueryCharge(ctx context.Context, q *ChargeQuery) (*ChargeResponse, error)
	// VerifyCallback checks the HMAC signature on a pushed notification
	// and parses it
	VerifyCallback(payload []byte, signature string) (*Callback, error)
}
