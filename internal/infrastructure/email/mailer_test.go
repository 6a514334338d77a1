package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/occtelecom/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewMailerSelectsProvider(t *testing.T) {
	m, err := NewMailer(&config.EmailConfig{Provider: "noop"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &NoopMailer{}, m)

	m, err = NewMailer(&config.EmailConfig{Provider: "http", BaseURL: "http://mail.internal"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &HTTPMailer{}, m)

	_, err = NewMailer(&config.EmailConfig{Provider: "carrier-pigeon"}, zap.NewNop())
	assert.Error(t, err)
}

func TestHTTPMailerSend(t *testing.T) {
	var got sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/send", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		rw.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m, err := NewHTTPMailer(&config.EmailConfig{
		BaseURL: server.URL,
		APIKey:  "key-123",
		From:    "noreply@occtelecom.example",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	err = m.Send(context.Background(), &Message{
		To:       "jane@example.com",
		Subject:  "Your invoice",
		HTMLBody: "<p>hi</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "noreply@occtelecom.example", got.From)
	assert.Equal(t, "jane@example.com", got.To)
	assert.Equal(t, "Your invoice", got.Subject)
}

func TestHTTPMailerSendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	m, err := NewHTTPMailer(&config.EmailConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	err = m.Send(context.Background(), &Message{To: "jane@example.com"})
	assert.Error(t, err)

	err = m.Send(context.Background(), &Message{})
	assert.Error(t, err)
}

func TestNoopMailerSend(t *testing.T) {
	m := NewNoopMailer(zap.NewNop())
	assert.NoError(t, m.Send(context.Background(), &Message{To: "x@example.com"}))
}
