package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// UserRepository defines persistence operations for login accounts
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
