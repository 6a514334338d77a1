package handler

import (
	"github.com/gin-gonic/gin"

	auditapp "github.com/occtelecom/backend/internal/application/audit"
	customerapp "github.com/occtelecom/backend/internal/application/customer"
)

// CustomerHandler serves the back-office customer views
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.CustomerService
	searchService   *customerapp.SearchService
	auditService    *auditapp.AuditService
	commService     *auditapp.CommunicationService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	customerService *customerapp.CustomerService,
	searchService *customerapp.SearchService,
	auditService *auditapp.AuditService,
	commService *auditapp.CommunicationService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		searchService:   searchService,
		auditService:    auditService,
		commService:     commService,
	}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)

	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/:id", h.GetByID)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
	customers.POST("/:id/suspend", h.Suspend)
	customers.POST("/:id/reactivate", h.Reactivate)
	customers.GET("/:id/history", h.History)
	customers.GET("/:id/communications", h.Communications)
}

// Search answers the admin search box: account numbers resolve to a
// single customer, anything else is a fuzzy name and email match.
func (h *CustomerHandler) Search(c *gin.Context) {
	var req customerapp.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create creates a customer account
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists customer accounts with pagination
func (h *CustomerHandler) List(c *gin.Context) {
	var filter customerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID returns a customer account
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a customer account
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete closes a customer account. Accounts with unpaid invoices or
// active services are refused.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Suspend suspends a customer account
func (h *CustomerHandler) Suspend(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.customerService.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reactivate lifts a suspension
func (h *CustomerHandler) Reactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.customerService.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// History returns the audit trail for a customer record
func (h *CustomerHandler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	entries, err := h.auditService.ListForEntity(c.Request.Context(), "customer", id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Communications lists the emails, SMS and letters sent to a customer
func (h *CustomerHandler) Communications(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	comms, err := h.commService.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comms)
}
