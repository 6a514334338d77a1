package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/occtelecom/backend/internal/domain/billing"
)

// InvoiceLineResponse represents one charge on an invoice
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsLateFee   bool            `json:"is_late_fee"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     uuid.UUID             `json:"customer_id"`
	Status         string                `json:"status"`
	Lines          []InvoiceLineResponse `json:"lines"`
	Total          decimal.Decimal       `json:"total"`
	IssuedAt       *time.Time            `json:"issued_at,omitempty"`
	DueDate        time.Time             `json:"due_date"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	LateFeeApplied bool                  `json:"late_fee_applied"`
	CreatedAt      time.Time             `json:"created_at"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=draft issued paid overdue void"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	GatewayRef    string          `json:"gateway_ref,omitempty"`
	TakenBy       *uuid.UUID      `json:"taken_by,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
}

// PaymentAttemptResponse represents one gateway charge attempt
type PaymentAttemptResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	GatewayRef  string          `json:"gateway_ref,omitempty"`
	FailureCode string          `json:"failure_code,omitempty"`
	FailureNote string          `json:"failure_note,omitempty"`
	AttemptedAt time.Time       `json:"attempted_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// PayInvoiceRequest represents an online card payment
type PayInvoiceRequest struct {
	CardToken string `json:"card_token" binding:"required,max=200"`
}

// PhonePaymentRequest represents an agent-keyed card payment
type PhonePaymentRequest struct {
	CardToken string    `json:"card_token" binding:"required,max=200"`
	TakenBy   uuid.UUID `json:"-"` // staff user from the JWT, not the body
}

// UpdateBillingSettingsRequest changes a customer's billing cycle
type UpdateBillingSettingsRequest struct {
	Mode       string `json:"mode" binding:"required,oneof=fixed_day anniversary"`
	BillingDay int    `json:"billing_day" binding:"omitempty,min=1,max=28"`
}

// BillingSettingsResponse represents a billing cycle configuration
type BillingSettingsResponse struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	Mode            string    `json:"mode"`
	BillingDay      int       `json:"billing_day"`
	NextInvoiceDate time.Time `json:"next_invoice_date"`
}

// BillingRunResult summarizes one scheduled billing run
type BillingRunResult struct {
	InvoicesIssued int `json:"invoices_issued"`
	Failures       int `json:"failures"`
}

// LateFeeRunResult summarizes one scheduled late-fee run
type LateFeeRunResult struct {
	FeesApplied int `json:"fees_applied"`
	Failures    int `json:"failures"`
}

// DocumentResponse points a client at a rendered PDF
type DocumentResponse struct {
	Key         string `json:"key"`
	DownloadURL string `json:"download_url"`
}

// ToInvoiceResponse maps a domain invoice to its API representation
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(i.Lines))
	for _, l := range i.Lines {
		lines = append(lines, InvoiceLineResponse{
			Description: l.Description,
			Amount:      l.Amount,
			IsLateFee:   l.IsLateFee,
		})
	}
	return InvoiceResponse{
		ID:             i.ID,
		InvoiceNumber:  i.InvoiceNumber,
		CustomerID:     i.CustomerID,
		Status:         string(i.Status),
		Lines:          lines,
		Total:          i.Total,
		IssuedAt:       i.IssuedAt,
		DueDate:        i.DueDate,
		PaidAt:         i.PaidAt,
		LateFeeApplied: i.LateFeeApplied,
		CreatedAt:      i.CreatedAt,
	}
}

// ToReceiptResponse maps a domain receipt to its API representation
func ToReceiptResponse(r *billing.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		InvoiceID:     r.InvoiceID,
		CustomerID:    r.CustomerID,
		Amount:        r.Amount,
		Method:        string(r.Method),
		GatewayRef:    r.GatewayRef,
		TakenBy:       r.TakenBy,
		PaidAt:        r.PaidAt,
	}
}

// ToPaymentAttemptResponse maps a domain attempt to its API representation
func ToPaymentAttemptResponse(a *billing.PaymentAttempt) PaymentAttemptResponse {
	return PaymentAttemptResponse{
		ID:          a.ID,
		InvoiceID:   a.InvoiceID,
		Amount:      a.Amount,
		Status:      string(a.Status),
		GatewayRef:  a.GatewayRef,
		FailureCode: a.FailureCode,
		FailureNote: a.FailureNote,
		AttemptedAt: a.AttemptedAt,
		CompletedAt: a.CompletedAt,
	}
}

// ToBillingSettingsResponse maps domain settings to their API representation
func ToBillingSettingsResponse(s *billing.BillingSettings) BillingSettingsResponse {
	return BillingSettingsResponse{
		CustomerID:      s.CustomerID,
		Mode:            string(s.Mode),
		BillingDay:      s.BillingDay,
		NextInvoiceDate: s.NextInvoiceDate,
	}
}
