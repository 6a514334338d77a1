package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/customer"
)

// CreateCustomerRequest represents a request to create a customer account
type CreateCustomerRequest struct {
	FullName       string `json:"full_name" binding:"required,min=1,max=200"`
	Email          string `json:"email" binding:"required,email,max=200"`
	Phone          string `json:"phone" binding:"max=50"`
	AddressLine1   string `json:"address_line1" binding:"max=200"`
	AddressLine2   string `json:"address_line2" binding:"max=200"`
	City           string `json:"city" binding:"max=100"`
	Postcode       string `json:"postcode" binding:"max=10"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
	Notes          string `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer profile
type UpdateCustomerRequest struct {
	FullName       *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	Email          *string `json:"email" binding:"omitempty,email,max=200"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	AddressLine1   *string `json:"address_line1" binding:"omitempty,max=200"`
	AddressLine2   *string `json:"address_line2" binding:"omitempty,max=200"`
	City           *string `json:"city" binding:"omitempty,max=100"`
	Postcode       *string `json:"postcode" binding:"omitempty,max=10"`
	MarketingOptIn *bool   `json:"marketing_opt_in"`
	Notes          *string `json:"notes"`
}

// CustomerResponse represents a customer account in API responses
type CustomerResponse struct {
	ID             uuid.UUID `json:"id"`
	AccountNumber  string    `json:"account_number"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	AddressLine1   string    `json:"address_line1"`
	AddressLine2   string    `json:"address_line2"`
	City           string    `json:"city"`
	Postcode       string    `json:"postcode"`
	Status         string    `json:"status"`
	MarketingOptIn bool      `json:"marketing_opt_in"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=active suspended closed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SearchRequest represents an admin search box query
type SearchRequest struct {
	Query string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SearchResponse carries the classified mode alongside the result rows so
// the UI can show which predicate was used
type SearchResponse struct {
	Mode    string               `json:"mode"`
	Results []customer.SearchRow `json:"results"`
}

// ToCustomerResponse maps a domain customer to its API representation
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		AccountNumber:  c.AccountNumber,
		FullName:       c.FullName,
		Email:          c.Email,
		Phone:          c.Phone,
		AddressLine1:   c.AddressLine1,
		AddressLine2:   c.AddressLine2,
		City:           c.City,
		Postcode:       c.Postcode,
		Status:         string(c.Status),
		MarketingOptIn: c.MarketingOptIn,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}
