package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// Repository defines persistence operations for plans
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Plan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Plan, error)
	FindActiveByServiceType(ctx context.Context, serviceType ServiceType) ([]Plan, error)
	Save(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
