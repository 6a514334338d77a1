package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/occtelecom/backend/internal/application/billing"
	directdebitapp "github.com/occtelecom/backend/internal/application/directdebit"
	"github.com/occtelecom/backend/internal/interfaces/http/middleware"
)

// PortalBillingHandler serves the customer's own invoices, payments,
// billing settings and Direct Debit mandates.
type PortalBillingHandler struct {
	BaseHandler
	billingService  *billingapp.BillingService
	paymentService  *billingapp.PaymentService
	documentService *billingapp.DocumentService
	mandateService  *directdebitapp.MandateService
}

// NewPortalBillingHandler creates a new PortalBillingHandler
func NewPortalBillingHandler(
	billingService *billingapp.BillingService,
	paymentService *billingapp.PaymentService,
	documentService *billingapp.DocumentService,
	mandateService *directdebitapp.MandateService,
) *PortalBillingHandler {
	return &PortalBillingHandler{
		billingService:  billingService,
		paymentService:  paymentService,
		documentService: documentService,
		mandateService:  mandateService,
	}
}

// RegisterRoutes registers portal billing routes
func (h *PortalBillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/invoices", h.ListInvoices)
	rg.GET("/invoices/:id", h.GetInvoice)
	rg.GET("/invoices/:id/pdf", h.InvoicePDF)
	rg.GET("/invoices/:id/receipts", h.ListInvoiceReceipts)
	rg.POST("/invoices/:id/pay", h.PayInvoice)
	rg.GET("/receipts", h.ListReceipts)

	rg.GET("/billing/settings", h.GetBillingSettings)
	rg.PUT("/billing/settings", h.UpdateBillingSettings)

	rg.GET("/mandates", h.ListMandates)
	rg.POST("/mandates", h.SetUpMandate)
	rg.POST("/mandates/:id/cancel", h.CancelMandate)
}

// ListInvoices lists the customer's own invoices
func (h *PortalBillingHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.billingService.ListCustomerInvoices(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// GetInvoice returns one of the customer's own invoices
func (h *PortalBillingHandler) GetInvoice(c *gin.Context) {
	inv, ok := h.ownInvoice(c)
	if !ok {
		return
	}
	h.Success(c, inv)
}

// InvoicePDF generates a PDF of an invoice and returns a download link
func (h *PortalBillingHandler) InvoicePDF(c *gin.Context) {
	inv, ok := h.ownInvoice(c)
	if !ok {
		return
	}

	doc, err := h.documentService.InvoicePDF(c.Request.Context(), inv.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// ListInvoiceReceipts lists receipts recorded against an invoice
func (h *PortalBillingHandler) ListInvoiceReceipts(c *gin.Context) {
	inv, ok := h.ownInvoice(c)
	if !ok {
		return
	}

	receipts, err := h.paymentService.ListInvoiceReceipts(c.Request.Context(), inv.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipts)
}

// PayInvoice charges the customer's card for an open invoice
func (h *PortalBillingHandler) PayInvoice(c *gin.Context) {
	inv, ok := h.ownInvoice(c)
	if !ok {
		return
	}

	var req billingapp.PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.paymentService.PayOnline(c.Request.Context(), inv.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// ListReceipts lists all payments across the customer's invoices
func (h *PortalBillingHandler) ListReceipts(c *gin.Context) {
	receipts, err := h.paymentService.ListCustomerReceipts(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipts)
}

// GetBillingSettings returns the customer's billing cycle configuration
func (h *PortalBillingHandler) GetBillingSettings(c *gin.Context) {
	settings, err := h.billingService.GetSettings(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateBillingSettings changes the customer's billing day or mode
func (h *PortalBillingHandler) UpdateBillingSettings(c *gin.Context) {
	var req billingapp.UpdateBillingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.billingService.UpdateSettings(c.Request.Context(), middleware.GetCustomerID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// ListMandates lists the customer's Direct Debit mandates
func (h *PortalBillingHandler) ListMandates(c *gin.Context) {
	mandates, err := h.mandateService.ListByCustomer(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mandates)
}

// SetUpMandate starts a new Direct Debit mandate for the customer
func (h *PortalBillingHandler) SetUpMandate(c *gin.Context) {
	var req directdebitapp.SetUpMandateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	mandate, err := h.mandateService.SetUp(c.Request.Context(), middleware.GetCustomerID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, mandate)
}

// CancelMandate cancels one of the customer's own mandates
func (h *PortalBillingHandler) CancelMandate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid mandate ID")
		return
	}

	mandate, err := h.mandateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if mandate.CustomerID != middleware.GetCustomerID(c) {
		h.NotFound(c, "Mandate not found")
		return
	}

	cancelled, err := h.mandateService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cancelled)
}

// ownInvoice loads the :id invoice and verifies it belongs to the
// caller. Other customers' invoices are reported as not found.
func (h *PortalBillingHandler) ownInvoice(c *gin.Context) (*billingapp.InvoiceResponse, bool) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return nil, false
	}

	inv, err := h.billingService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if inv.CustomerID != middleware.GetCustomerID(c) {
		h.NotFound(c, "Invoice not found")
		return nil, false
	}
	return inv, true
}
