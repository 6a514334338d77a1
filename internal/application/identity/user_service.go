package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/occtelecom/backend/internal/domain/identity"
	"github.com/occtelecom/backend/internal/domain/shared"
)

// UserService manages back-office login accounts
type UserService struct {
	userRepo identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateStaff creates an admin or agent login
func (s *UserService) CreateStaff(ctx context.Context, req CreateStaffUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	u, err := identity.NewUser(req.Email, req.Password, req.DisplayName, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	resp := ToUserResponse(u)
	return &resp, nil
}

// GetByID retrieves a login account
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// List returns a page of login accounts
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, ToUserResponse(&users[i]))
	}
	return items, nil
}

// Deactivate disables a login account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.update(ctx, id, func(u *identity.User) error {
		u.Deactivate()
		return nil
	})
}

// Activate re-enables a login account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.update(ctx, id, func(u *identity.User) error {
		u.Activate()
		return nil
	})
}

// ChangeRole changes a staff account's role
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	return s.update(ctx, id, func(u *identity.User) error {
		return u.ChangeRole(identity.Role(req.Role))
	})
}

// Delete removes a login account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) update(ctx context.Context, id uuid.UUID, op func(*identity.User) error) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(u); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}
