package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// EntryRepository defines persistence operations for audit entries.
// Entries are append-only.
type EntryRepository interface {
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID, filter shared.Filter) ([]Entry, error)
	FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) ([]Entry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)
	Save(ctx context.Context, e *Entry) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CommunicationRepository defines persistence operations for the
// communications log
type CommunicationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Communication, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Communication, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Communication, error)
	Save(ctx context.Context, c *Communication) error
}
