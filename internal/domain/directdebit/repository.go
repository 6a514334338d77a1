package directdebit

import (
	"context"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// MandateRepository defines persistence operations for mandates
type MandateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Mandate, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Mandate, error)
	// FindActiveByCustomer returns the customer's live mandate, or
	// shared.ErrNotFound when none exists.
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*Mandate, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Mandate, error)
	Save(ctx context.Context, m *Mandate) error
}
