package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// Repository defines persistence operations for customer accounts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	NextAccountSequence(ctx context.Context) (int64, error)
	Save(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SearchRepository queries the denormalized customer search view with a
// classified query. Implementations must translate each SearchMode into
// the matching SQL predicate and nothing else.
type SearchRepository interface {
	Search(ctx context.Context, query SearchQuery, limit int) ([]SearchRow, error)
}
