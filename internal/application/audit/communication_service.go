package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/audit"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// CommunicationService maintains the outbound communications log. Every
// email, SMS or letter the system sends a customer is recorded here so
// agents can see what a customer has actually received.
type CommunicationService struct {
	commRepo audit.CommunicationRepository
	logger   *zap.Logger
}

// NewCommunicationService creates a new CommunicationService
func NewCommunicationService(commRepo audit.CommunicationRepository, logger *zap.Logger) *CommunicationService {
	return &CommunicationService{commRepo: commRepo, logger: logger}
}

// RecordEmail logs a queued email and returns its log entry
func (s *CommunicationService) RecordEmail(ctx context.Context, customerID uuid.UUID, meta audit.EmailMetadata) (*audit.Communication, error) {
	c, err := audit.NewEmailCommunication(customerID, meta)
	if err != nil {
		return nil, err
	}
	if err := s.commRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordSMS logs a queued SMS and returns its log entry
func (s *CommunicationService) RecordSMS(ctx context.Context, customerID uuid.UUID, meta audit.SMSMetadata) (*audit.Communication, error) {
	c, err := audit.NewSMSCommunication(customerID, meta)
	if err != nil {
		return nil, err
	}
	if err := s.commRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordPost logs a queued letter and returns its log entry
func (s *CommunicationService) RecordPost(ctx context.Context, customerID uuid.UUID, meta audit.PostMetadata) (*audit.Communication, error) {
	c, err := audit.NewPostCommunication(customerID, meta)
	if err != nil {
		return nil, err
	}
	if err := s.commRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// MarkSent records successful delivery of a queued communication
func (s *CommunicationService) MarkSent(ctx context.Context, id uuid.UUID) error {
	return s.complete(ctx, id, func(c *audit.Communication) error {
		return c.MarkSent()
	})
}

// MarkFailed records a delivery failure
func (s *CommunicationService) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return s.complete(ctx, id, func(c *audit.Communication) error {
		return c.MarkFailed(reason)
	})
}

func (s *CommunicationService) complete(ctx context.Context, id uuid.UUID, op func(*audit.Communication) error) error {
	c, err := s.commRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := op(c); err != nil {
		return err
	}
	return s.commRepo.Save(ctx, c)
}

// ListByCustomer returns everything sent to one customer, newest first
func (s *CommunicationService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]CommunicationResponse, error) {
	comms, err := s.commRepo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	items := make([]CommunicationResponse, 0, len(comms))
	for i := range comms {
		items = append(items, ToCommunicationResponse(&comms[i]))
	}
	return items, nil
}
