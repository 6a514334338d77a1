package support

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/domain/support"
	"github.com/occtelecom/backend/internal/infrastructure/realtime"
)

// TicketService manages support ticket threads. New messages are pushed
// to live viewers through the realtime broker as well as persisted.
type TicketService struct {
	ticketRepo support.TicketRepository
	broker     realtime.Broker
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(
	ticketRepo support.TicketRepository,
	broker realtime.Broker,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		broker:     broker,
		publisher:  publisher,
		logger:     logger,
	}
}

// Open raises a ticket with the customer's first message
func (s *TicketService) Open(ctx context.Context, customerID uuid.UUID, req OpenTicketRequest) (*TicketResponse, error) {
	seq, err := s.ticketRepo.NextTicketSequence(ctx)
	if err != nil {
		return nil, err
	}

	t, err := support.NewTicket(support.FormatTicketNumber(seq), customerID, req.Subject, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, t)

	resp := ToTicketResponse(t)
	return &resp, nil
}

// GetByID retrieves a ticket with its full message thread
func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*TicketResponse, error) {
	t, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTicketResponse(t)
	return &resp, nil
}

// GetForCustomer retrieves a ticket, refusing access to other customers'
// threads
func (s *TicketService) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*TicketResponse, error) {
	t, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}
	resp := ToTicketResponse(t)
	return &resp, nil
}

// ListByCustomer returns a customer's tickets without message threads
func (s *TicketService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]TicketResponse, error) {
	tickets, err := s.ticketRepo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return toTicketSummaries(tickets), nil
}

// List returns a page of tickets for the back-office queue
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) (*shared.Paginated[TicketResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.AssigneeID != "" {
		domainFilter.Filters["assignee_id"] = filter.AssigneeID
	}

	tickets, err := s.ticketRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.ticketRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(toTicketSummaries(tickets), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// AddCustomerMessage appends a customer reply. The author must own the
// ticket.
func (s *TicketService) AddCustomerMessage(ctx context.Context, ticketID, customerID uuid.UUID, req AddMessageRequest) (*TicketMessageResponse, error) {
	t, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}
	return s.addMessage(ctx, t, support.AuthorTypeCustomer, customerID, req.Body)
}

// AddStaffMessage appends a staff reply
func (s *TicketService) AddStaffMessage(ctx context.Context, ticketID, staffID uuid.UUID, req AddMessageRequest) (*TicketMessageResponse, error) {
	t, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.addMessage(ctx, t, support.AuthorTypeStaff, staffID, req.Body)
}

func (s *TicketService) addMessage(ctx context.Context, t *support.Ticket, authorType support.AuthorType, authorID uuid.UUID, body string) (*TicketMessageResponse, error) {
	msg, err := t.AddMessage(authorType, authorID, body)
	if err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, t)

	resp := ToTicketMessageResponse(msg)
	s.broadcast(ctx, t.ID, &resp)
	return &resp, nil
}

// broadcast pushes a new message to live ticket viewers. Delivery is
// best-effort; the message is already persisted.
func (s *TicketService) broadcast(ctx context.Context, ticketID uuid.UUID, msg *TicketMessageResponse) {
	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to encode ticket message", zap.Error(err))
		return
	}
	if err := s.broker.Publish(ctx, realtime.TicketChannel(ticketID), payload); err != nil {
		s.logger.Warn("failed to broadcast ticket message",
			zap.String("ticket_id", ticketID.String()),
			zap.Error(err),
		)
	}
}

// Assign hands the ticket to a staff member
func (s *TicketService) Assign(ctx context.Context, ticketID uuid.UUID, req AssignTicketRequest) (*TicketResponse, error) {
	return s.update(ctx, ticketID, func(t *support.Ticket) error {
		return t.Assign(req.AssigneeID)
	})
}

// SetPriority changes the ticket urgency
func (s *TicketService) SetPriority(ctx context.Context, ticketID uuid.UUID, req SetPriorityRequest) (*TicketResponse, error) {
	return s.update(ctx, ticketID, func(t *support.Ticket) error {
		return t.SetPriority(support.TicketPriority(req.Priority))
	})
}

// Resolve marks the ticket as answered
func (s *TicketService) Resolve(ctx context.Context, ticketID uuid.UUID) (*TicketResponse, error) {
	return s.update(ctx, ticketID, func(t *support.Ticket) error {
		return t.Resolve()
	})
}

// Close closes the ticket for good
func (s *TicketService) Close(ctx context.Context, ticketID uuid.UUID) (*TicketResponse, error) {
	return s.update(ctx, ticketID, func(t *support.Ticket) error {
		return t.Close()
	})
}

func (s *TicketService) update(ctx context.Context, ticketID uuid.UUID, op func(*support.Ticket) error) (*TicketResponse, error) {
	t, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := op(t); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, t)

	resp := ToTicketResponse(t)
	return &resp, nil
}

func (s *TicketService) publishEvents(ctx context.Context, t *support.Ticket) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, t.GetDomainEvents()...)
	t.ClearDomainEvents()
}
