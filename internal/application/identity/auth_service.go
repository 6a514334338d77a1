package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/audit"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/identity"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/infrastructure/auth"
)

// ErrInvalidCredentials hides whether the email or the password was wrong
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles logins, logouts and portal registration
type AuthService struct {
	userRepo     identity.UserRepository
	customerRepo customer.Repository
	auditRepo    audit.EntryRepository
	jwtManager   *auth.JWTManager
	blacklist    auth.TokenBlacklist
	logger       *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	customerRepo customer.Repository,
	auditRepo audit.EntryRepository,
	jwtManager *auth.JWTManager,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		jwtManager:   jwtManager,
		blacklist:    blacklist,
		logger:       logger,
	}
}

// Login verifies credentials and issues a token. Failed attempts are
// audited; the error never reveals which part of the credentials failed.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(req.Email)

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err == shared.ErrNotFound {
		s.auditLoginFailure(ctx, email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.Active || !u.CheckPassword(req.Password) {
		s.auditLoginFailure(ctx, email)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	u.RecordLogin()
	if err := s.userRepo.Save(ctx, u); err != nil {
		s.logger.Warn("failed to record login time",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}
	s.auditLogin(ctx, u)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(u),
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.RemainingValidity()
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}

// RegisterCustomerUser creates a portal login for an existing customer.
// The login email must match the customer record.
func (s *AuthService) RegisterCustomerUser(ctx context.Context, req RegisterCustomerUserRequest) (*UserResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only active accounts can register for the portal")
	}
	if strings.ToLower(req.Email) != c.Email {
		return nil, shared.NewDomainError("EMAIL_MISMATCH", "Login email must match the account email")
	}

	if _, err := s.userRepo.FindByCustomerID(ctx, c.ID); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if err != shared.ErrNotFound {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	u, err := identity.NewCustomerUser(req.Email, req.Password, c.FullName, c.ID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	resp := ToUserResponse(u)
	return &resp, nil
}

// ChangePassword changes the caller's own password after re-verifying
// the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.CheckPassword(req.CurrentPassword) {
		return ErrInvalidCredentials
	}
	if err := u.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, u)
}

func (s *AuthService) auditLogin(ctx context.Context, u *identity.User) {
	entry, err := audit.NewEntry(u.ID, u.DisplayName, audit.ActionLogin, "user", u.ID, "")
	if err != nil {
		return
	}
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		s.logger.Warn("failed to audit login", zap.Error(err))
	}
}

func (s *AuthService) auditLoginFailure(ctx context.Context, email string) {
	detail := audit.MarshalDetail(map[string]string{"email": email})
	entry, err := audit.NewSystemEntry(audit.ActionLoginFailed, "user", uuid.Nil, detail)
	if err != nil {
		return
	}
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		s.logger.Warn("failed to audit login failure", zap.Error(err))
	}
}
