package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/occtelecom/backend/internal/application/billing"
	"github.com/occtelecom/backend/internal/infrastructure/payment"
)

// SignatureHeader carries the gateway's HMAC over the callback body
const SignatureHeader = "X-Gateway-Signature"

// PaymentCallbackHandler receives asynchronous payment notifications
// from the card gateway. The gateway authenticates itself with a
// signature header, not a bearer token.
type PaymentCallbackHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
	logger         *zap.Logger
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(paymentService *billingapp.PaymentService, logger *zap.Logger) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// RegisterRoutes registers payment callback routes
func (h *PaymentCallbackHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/callback", h.HandleCallback)
}

// HandleCallback verifies and applies one gateway notification. The
// gateway retries on any non-2xx status, so invalid signatures return
// 401 and everything else that fails returns 500.
func (h *PaymentCallbackHandler) HandleCallback(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read callback body")
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		h.Unauthorized(c, "Missing callback signature")
		return
	}

	if err := h.paymentService.HandleCallback(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, payment.ErrInvalidCallback) {
			h.logger.Warn("rejected payment callback with bad signature")
			h.Unauthorized(c, "Invalid callback signature")
			return
		}
		h.logger.Error("failed to process payment callback", zap.Error(err))
		h.InternalError(c, "Failed to process callback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
