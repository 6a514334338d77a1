package customer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/occtelecom/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a customer account
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended" // Suspended for non-payment
	StatusClosed    Status = "closed"
)

// AccountNumberPrefix is the prefix carried by every customer account number
const AccountNumberPrefix = "OCC"

// accountNumberPattern matches a well-formed account number
var accountNumberPattern = regexp.MustCompile(`^OCC\d+$`)

// Customer represents a retail customer account.
// It is the aggregate root for customer profile operations.
type Customer struct {
	shared.BaseAggregateRoot
	AccountNumber string `gorm:"type:varchar(20);not null;uniqueIndex"`
	FullName      string `gorm:"type:varchar(200);not null"`
	Email         string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone         string `gorm:"type:varchar(50);index"`
	AddressLine1  string `gorm:"type:varchar(200)"`
	AddressLine2  string `gorm:"type:varchar(200)"`
	City          string `gorm:"type:varchar(100)"`
	Postcode      string `gorm:"type:varchar(10);index"`
	Status        Status `gorm:"type:varchar(20);not null;default:'active'"`
	MarketingOptIn bool  `gorm:"not null;default:false"`
	Notes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with the required fields.
// Email and full name are the only mandatory inputs; everything else is
// captured later through the dashboard or back-office.
func NewCustomer(accountNumber, fullName, email string) (*Customer, error) {
	if err := validateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountNumber:     strings.ToUpper(accountNumber),
		FullName:          fullName,
		Email:             strings.ToLower(email),
		Status:            StatusActive,
	}

	c.AddDomainEvent(NewCustomerCreatedEvent(c))

	return c, nil
}

// FormatAccountNumber builds an account number from a numeric sequence value
func FormatAccountNumber(seq int64) string {
	return fmt.Sprintf("%s%06d", AccountNumberPrefix, seq)
}

// UpdateProfile updates the customer's name and contact details
func (c *Customer) UpdateProfile(fullName, phone string) error {
	if err := validateFullName(fullName); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.FullName = fullName
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// UpdateEmail changes the customer's email address
func (c *Customer) UpdateEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	c.Email = strings.ToLower(email)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetAddress sets the customer's service address
func (c *Customer) SetAddress(line1, line2, city, postcode string) error {
	if line1 != "" && len(line1) > 200 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot exceed 200 characters")
	}
	if line2 != "" && len(line2) > 200 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot exceed 200 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if postcode != "" {
		if err := validatePostcode(postcode); err != nil {
			return err
		}
	}

	c.AddressLine1 = line1
	c.AddressLine2 = line2
	c.City = city
	c.Postcode = NormalizePostcode(postcode)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetMarketingOptIn records the customer's marketing preference
func (c *Customer) SetMarketingOptIn(optIn bool) {
	c.MarketingOptIn = optIn
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetNotes sets back-office notes on the account
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Suspend suspends the account
func (c *Customer) Suspend() error {
	if c.Status == StatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Account is already suspended")
	}
	if c.Status == StatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Closed accounts cannot be suspended")
	}

	oldStatus := c.Status
	c.Status = StatusSuspended
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, StatusSuspended))

	return nil
}

// Reactivate reactivates a suspended account
func (c *Customer) Reactivate() error {
	if c.Status != StatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended accounts can be reactivated")
	}

	oldStatus := c.Status
	c.Status = StatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, StatusActive))

	return nil
}

// Close closes the account. The caller is responsible for checking the
// deletion preconditions (no active services, no unpaid invoices).
func (c *Customer) Close() error {
	if c.Status == StatusClosed {
		return shared.NewDomainError("ALREADY_CLOSED", "Account is already closed")
	}

	oldStatus := c.Status
	c.Status = StatusClosed
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, StatusClosed))

	return nil
}

// IsActive returns true if the account is active
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

// IsClosed returns true if the account is closed
func (c *Customer) IsClosed() bool {
	return c.Status == StatusClosed
}

// NormalizePostcode uppercases a postcode and strips all whitespace
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}

// Validation functions

func validateAccountNumber(accountNumber string) error {
	if accountNumber == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if !accountNumberPattern.MatchString(strings.ToUpper(accountNumber)) {
		return shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number must be OCC followed by digits")
	}
	return nil
}

func validateFullName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validatePostcode(postcode string) error {
	normalized := NormalizePostcode(postcode)
	if len(normalized) < 3 || len(normalized) > 8 {
		return shared.NewDomainError("INVALID_POSTCODE", "Postcode must be between 3 and 8 characters")
	}
	return nil
}
