package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/occtelecom/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Message is one outbound email
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// NewMailer builds the mailer selected by configuration
func NewMailer(cfg *config.EmailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "http":
		return NewHTTPMailer(cfg, logger)
	case "noop", "":
		return NewNoopMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// HTTPMailer delivers mail through a JSON HTTP API
type HTTPMailer struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPMailer creates an HTTP API backed mailer
func NewHTTPMailer(cfg *config.EmailConfig, logger *zap.Logger) (*HTTPMailer, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("email.base_url is required for the http provider")
	}
	return &HTTPMailer{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

type sendRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body,omitempty"`
	TextBody string `json:"text_body,omitempty"`
}

// Send posts the message to the provider
func (m *HTTPMailer) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return fmt.Errorf("email recipient is required")
	}

	payload, err := json.Marshal(sendRequest{
		From:     m.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email provider returned HTTP %d: %s", resp.StatusCode, body)
	}

	m.logger.Debug("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

var _ Mailer = (*HTTPMailer)(nil)

// NoopMailer logs instead of sending. Used in development and tests.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a mailer that only logs
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// Send logs the message and drops it
func (m *NoopMailer) Send(_ context.Context, msg *Message) error {
	m.logger.Info("email suppressed (noop mailer)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

var _ Mailer = (*NoopMailer)(nil)
