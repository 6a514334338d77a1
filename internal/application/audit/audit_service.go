package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/audit"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// AuditService records and reads the append-only audit trail
type AuditService struct {
	entryRepo audit.EntryRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(entryRepo audit.EntryRepository, logger *zap.Logger) *AuditService {
	return &AuditService{entryRepo: entryRepo, logger: logger}
}

// Record writes one audit entry. Failures are logged but never bubble
// up; an audit problem must not fail the action being audited.
func (s *AuditService) Record(ctx context.Context, req RecordEntryRequest) {
	detail := ""
	if req.Detail != nil {
		detail = audit.MarshalDetail(req.Detail)
	}

	entry, err := audit.NewEntry(req.ActorID, req.ActorName, req.Action, req.EntityType, req.EntityID, detail)
	if err != nil {
		s.logger.Warn("invalid audit entry", zap.Error(err))
		return
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry",
			zap.String("action", string(req.Action)),
			zap.Error(err),
		)
	}
}

// RecordSystem writes an audit entry for an automated action
func (s *AuditService) RecordSystem(ctx context.Context, action audit.Action, entityType string, entityID uuid.UUID, detail any) {
	s.Record(ctx, RecordEntryRequest{
		ActorName:  "system",
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
}

// List returns a page of audit entries for the back-office
func (s *AuditService) List(ctx context.Context, filter EntryListFilter) (*shared.Paginated[EntryResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Action != "" {
		domainFilter.Filters["action"] = filter.Action
	}
	if filter.EntityType != "" {
		domainFilter.Filters["entity_type"] = filter.EntityType
	}
	if filter.EntityID != "" {
		domainFilter.Filters["entity_id"] = filter.EntityID
	}
	if filter.ActorID != "" {
		domainFilter.Filters["actor_id"] = filter.ActorID
	}

	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToEntryResponse(&entries[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListForEntity returns the audit history of one record
func (s *AuditService) ListForEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.entryRepo.FindByEntity(ctx, entityType, entityID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	items := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToEntryResponse(&entries[i]))
	}
	return items, nil
}
