package support

import (
	"context"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// TicketRepository defines persistence operations for support tickets
type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	FindByTicketNumber(ctx context.Context, ticketNumber string) (*Ticket, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Ticket, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Ticket, error)
	NextTicketSequence(ctx context.Context) (int64, error)
	Save(ctx context.Context, t *Ticket) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
