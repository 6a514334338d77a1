package directdebit

import (
	"time"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/directdebit"
)

// SetUpMandateRequest represents a customer's direct debit instruction.
// The full account number is validated and discarded; only the tail is kept.
type SetUpMandateRequest struct {
	AccountHolderName string `json:"account_holder_name" binding:"required,max=200"`
	SortCode          string `json:"sort_code" binding:"required"`
	AccountNumber     string `json:"account_number" binding:"required,min=6,max=10"`
}

// SubmitMandateRequest carries the scheme reference after submission
type SubmitMandateRequest struct {
	ProviderRef string `json:"provider_ref" binding:"required,max=100"`
}

// FailMandateRequest records a provider rejection
type FailMandateRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// MandateListFilter represents filter options for the mandate list
type MandateListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending verified submitted_to_provider active failed cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MandateResponse represents a mandate in API responses
type MandateResponse struct {
	ID                uuid.UUID  `json:"id"`
	CustomerID        uuid.UUID  `json:"customer_id"`
	AccountHolderName string     `json:"account_holder_name"`
	SortCode          string     `json:"sort_code"`
	AccountNumberTail string     `json:"account_number_tail"`
	Status            string     `json:"status"`
	ProviderRef       string     `json:"provider_ref,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	ActivatedAt       *time.Time `json:"activated_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToMandateResponse maps a domain mandate to its API representation
func ToMandateResponse(m *directdebit.Mandate) MandateResponse {
	return MandateResponse{
		ID:                m.ID,
		CustomerID:        m.CustomerID,
		AccountHolderName: m.AccountHolderName,
		SortCode:          m.SortCode,
		AccountNumberTail: m.AccountNumberTail,
		Status:            string(m.Status),
		ProviderRef:       m.ProviderRef,
		FailureReason:     m.FailureReason,
		VerifiedAt:        m.VerifiedAt,
		ActivatedAt:       m.ActivatedAt,
		CancelledAt:       m.CancelledAt,
		CreatedAt:         m.CreatedAt,
	}
}
