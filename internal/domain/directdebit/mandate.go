package directdebit

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// MandateStatus represents the state of a direct debit mandate
type MandateStatus string

const (
	MandateStatusPending             MandateStatus = "pending"
	MandateStatusVerified            MandateStatus = "verified"              // bank details checked
	MandateStatusSubmittedToProvider MandateStatus = "submitted_to_provider" // sent to the DD scheme
	MandateStatusActive              MandateStatus = "active"
	MandateStatusFailed              MandateStatus = "failed"
	MandateStatusCancelled           MandateStatus = "cancelled"
)

// mandateTransitions lists the allowed forward moves. Failure and
// cancellation are handled separately since they apply from several states.
var mandateTransitions = map[MandateStatus]MandateStatus{
	MandateStatusPending:             MandateStatusVerified,
	MandateStatusVerified:            MandateStatusSubmittedToProvider,
	MandateStatusSubmittedToProvider: MandateStatusActive,
}

// Mandate is a customer's direct debit instruction
type Mandate struct {
	shared.BaseAggregateRoot
	CustomerID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	AccountHolderName string        `gorm:"type:varchar(200);not null"`
	SortCode          string        `gorm:"type:varchar(6);not null"`  // digits only
	AccountNumberTail string        `gorm:"type:varchar(4);not null"`  // last four digits only
	Status            MandateStatus `gorm:"type:varchar(30);not null;default:'pending'"`
	ProviderRef       string        `gorm:"type:varchar(100)"`
	FailureReason     string        `gorm:"type:text"`
	VerifiedAt        *time.Time
	ActivatedAt       *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (Mandate) TableName() string {
	return "direct_debit_mandates"
}

var sortCodeRegex = regexp.MustCompile(`^\d{6}$`)

// NormalizeSortCode strips separators from a sort code
func NormalizeSortCode(raw string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(raw)
}

// NewMandate creates a pending mandate. Only the tail of the account
// number is retained.
func NewMandate(customerID uuid.UUID, accountHolderName, sortCode, accountNumber string) (*Mandate, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if strings.TrimSpace(accountHolderName) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_HOLDER", "Account holder name cannot be empty")
	}

	sc := NormalizeSortCode(sortCode)
	if !sortCodeRegex.MatchString(sc) {
		return nil, shared.NewDomainError("INVALID_SORT_CODE", "Sort code must be six digits")
	}
	if len(accountNumber) < 6 || len(accountNumber) > 10 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Bank account number length is invalid")
	}

	m := &Mandate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		AccountHolderName: accountHolderName,
		SortCode:          sc,
		AccountNumberTail: accountNumber[len(accountNumber)-4:],
		Status:            MandateStatusPending,
	}

	m.AddDomainEvent(NewMandateCreatedEvent(m))

	return m, nil
}

func (m *Mandate) advance(to MandateStatus) error {
	next, ok := mandateTransitions[m.Status]
	if !ok || next != to {
		return shared.NewDomainError("INVALID_MANDATE_TRANSITION",
			"Mandate cannot move from "+string(m.Status)+" to "+string(to))
	}
	m.Status = to
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Verify records that the bank details passed validation
func (m *Mandate) Verify() error {
	if err := m.advance(MandateStatusVerified); err != nil {
		return err
	}
	now := time.Now()
	m.VerifiedAt = &now
	return nil
}

// SubmitToProvider records submission to the direct debit scheme
func (m *Mandate) SubmitToProvider(providerRef string) error {
	if providerRef == "" {
		return shared.NewDomainError("INVALID_PROVIDER_REF", "Provider reference cannot be empty")
	}
	if err := m.advance(MandateStatusSubmittedToProvider); err != nil {
		return err
	}
	m.ProviderRef = providerRef
	return nil
}

// Activate records provider confirmation that the mandate is live
func (m *Mandate) Activate() error {
	if err := m.advance(MandateStatusActive); err != nil {
		return err
	}
	now := time.Now()
	m.ActivatedAt = &now
	m.AddDomainEvent(NewMandateActivatedEvent(m))
	return nil
}

// MarkFailed records a provider rejection. Allowed from any state that
// has not already terminated.
func (m *Mandate) MarkFailed(reason string) error {
	if m.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Mandate has already terminated")
	}
	m.Status = MandateStatusFailed
	m.FailureReason = reason
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	m.AddDomainEvent(NewMandateFailedEvent(m))
	return nil
}

// Cancel cancels the mandate at the customer's request
func (m *Mandate) Cancel() error {
	if m.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Mandate has already terminated")
	}
	now := time.Now()
	m.Status = MandateStatusCancelled
	m.CancelledAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
	m.AddDomainEvent(NewMandateCancelledEvent(m))
	return nil
}

// IsTerminal reports whether the mandate has reached a final state
func (m *Mandate) IsTerminal() bool {
	return m.Status == MandateStatusFailed || m.Status == MandateStatusCancelled
}

// IsActive reports whether the mandate can collect payments
func (m *Mandate) IsActive() bool {
	return m.Status == MandateStatusActive
}
