package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	billingapp "github.com/occtelecom/backend/internal/application/billing"
	"github.com/occtelecom/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler serves the back-office billing views: invoices,
// payments over the phone, documents and manual billing runs.
type InvoiceHandler struct {
	BaseHandler
	billingService  *billingapp.BillingService
	paymentService  *billingapp.PaymentService
	documentService *billingapp.DocumentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(
	billingService *billingapp.BillingService,
	paymentService *billingapp.PaymentService,
	documentService *billingapp.DocumentService,
) *InvoiceHandler {
	return &InvoiceHandler{
		billingService:  billingService,
		paymentService:  paymentService,
		documentService: documentService,
	}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.GET("", h.List)
	invoices.GET("/:id", h.GetByID)
	invoices.GET("/:id/pdf", h.InvoicePDF)
	invoices.GET("/:id/receipts", h.ListReceipts)
	invoices.GET("/:id/attempts", h.ListAttempts)
	invoices.POST("/:id/void", h.Void)
	invoices.POST("/:id/phone-payment", h.PhonePayment)

	rg.GET("/receipts/:id/pdf", h.ReceiptPDF)

	rg.POST("/customers/:id/invoices", h.IssueMonthlyInvoice)
	rg.GET("/customers/:id/invoices", h.ListCustomerInvoices)
	rg.GET("/customers/:id/billing-settings", h.GetSettings)
	rg.PUT("/customers/:id/billing-settings", h.UpdateSettings)

	billing := rg.Group("/billing")
	billing.POST("/run", h.RunBillingCycle)
	billing.POST("/late-fees", h.ApplyLateFees)
}

// List lists invoices with pagination
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.billingService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID returns an invoice
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.billingService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// InvoicePDF generates an invoice PDF and returns a download link
func (h *InvoiceHandler) InvoicePDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	doc, err := h.documentService.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// ReceiptPDF generates a receipt PDF and returns a download link
func (h *InvoiceHandler) ReceiptPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	doc, err := h.documentService.ReceiptPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// ListReceipts lists receipts recorded against an invoice
func (h *InvoiceHandler) ListReceipts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	receipts, err := h.paymentService.ListInvoiceReceipts(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipts)
}

// ListAttempts lists every charge attempt for an invoice, including
// declined ones
func (h *InvoiceHandler) ListAttempts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	attempts, err := h.paymentService.ListInvoiceAttempts(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, attempts)
}

// Void voids an unpaid invoice
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.billingService.VoidInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PhonePayment records a card payment keyed in by an agent
func (h *InvoiceHandler) PhonePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.PhonePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.TakenBy = middleware.GetUserID(c)

	receipt, err := h.paymentService.RecordPhonePayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// IssueMonthlyInvoice raises the next monthly invoice for a customer
// outside the scheduled run
func (h *InvoiceHandler) IssueMonthlyInvoice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.billingService.IssueMonthlyInvoice(c.Request.Context(), id, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListCustomerInvoices lists every invoice for a customer
func (h *InvoiceHandler) ListCustomerInvoices(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	invoices, err := h.billingService.ListCustomerInvoices(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// GetSettings returns a customer's billing cycle configuration
func (h *InvoiceHandler) GetSettings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	settings, err := h.billingService.GetSettings(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings changes a customer's billing day or mode
func (h *InvoiceHandler) UpdateSettings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req billingapp.UpdateBillingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.billingService.UpdateSettings(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// RunBillingCycle kicks the monthly invoice run immediately
func (h *InvoiceHandler) RunBillingCycle(c *gin.Context) {
	result, err := h.billingService.RunBillingCycle(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ApplyLateFees kicks the late fee sweep immediately
func (h *InvoiceHandler) ApplyLateFees(c *gin.Context) {
	result, err := h.billingService.ApplyLateFees(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
