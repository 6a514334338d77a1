package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role grants a set of permissions
type Role string

const (
	// RoleAdmin has full back-office access
	RoleAdmin Role = "admin"
	// RoleAgent handles customers, orders and tickets
	RoleAgent Role = "agent"
	// RoleCustomer can only see their own account
	RoleCustomer Role = "customer"
)

// ValidRole reports whether the role is known
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// IsStaff reports whether the role grants back-office access
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}

// User is a login account. Customer users carry a link to their
// customer record; staff users do not.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(100);not null"`
	DisplayName  string     `gorm:"type:varchar(200);not null"`
	Role         Role       `gorm:"type:varchar(20);not null"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Active       bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

var userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const minPasswordLength = 8

// NewUser creates a login account with a bcrypt password hash
func NewUser(email, password, displayName string, role Role) (*User, error) {
	if !userEmailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(password) < minPasswordLength {
		return nil, shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot be empty")
	}
	if !ValidRole(role) {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(email),
		PasswordHash:      string(hash),
		DisplayName:       displayName,
		Role:              role,
		Active:            true,
	}, nil
}

// NewCustomerUser creates a portal login linked to a customer record
func NewCustomerUser(email, password, displayName string, customerID uuid.UUID) (*User, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	u, err := NewUser(email, password, displayName, RoleCustomer)
	if err != nil {
		return nil, err
	}
	u.CustomerID = &customerID
	return u, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword rehashes and stores a new password
func (u *User) ChangePassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ChangeRole updates the role of a staff account
func (u *User) ChangeRole(role Role) error {
	if !ValidRole(role) {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if u.Role == RoleCustomer || role == RoleCustomer {
		return shared.NewDomainError("INVALID_ROLE_CHANGE", "Customer accounts cannot change role")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}
