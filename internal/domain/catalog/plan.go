package catalog

import (
	"strings"
	"time"

	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ServiceType represents the service a plan belongs to
type ServiceType string

const (
	ServiceTypeBroadband ServiceType = "broadband"
	ServiceTypeSIM       ServiceType = "sim"
	ServiceTypeLandline  ServiceType = "landline"
)

// AllServiceTypes returns every sellable service type
func AllServiceTypes() []ServiceType {
	return []ServiceType{ServiceTypeBroadband, ServiceTypeSIM, ServiceTypeLandline}
}

// Plan represents a sellable tariff for one service type
type Plan struct {
	shared.BaseAggregateRoot
	ServiceType  ServiceType     `gorm:"type:varchar(20);not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ContractTerm int             `gorm:"not null;default:12"` // months
	Active       bool            `gorm:"not null;default:true"`
	SortOrder    int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Plan) TableName() string {
	return "plans"
}

// NewPlan creates a new plan
func NewPlan(serviceType ServiceType, name string, monthlyPrice decimal.Decimal) (*Plan, error) {
	if err := validateServiceType(serviceType); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if monthlyPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}

	return &Plan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ServiceType:       serviceType,
		Name:              name,
		MonthlyPrice:      monthlyPrice,
		ContractTerm:      12,
		Active:            true,
	}, nil
}

// Update updates the plan's display fields
func (p *Plan) Update(name, description string, monthlyPrice decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if monthlyPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.MonthlyPrice = monthlyPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Activate makes the plan sellable
func (p *Plan) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate withdraws the plan from sale
func (p *Plan) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateServiceType(t ServiceType) error {
	switch t {
	case ServiceTypeBroadband, ServiceTypeSIM, ServiceTypeLandline:
		return nil
	default:
		return shared.NewDomainError("INVALID_SERVICE_TYPE", "Service type must be 'broadband', 'sim' or 'landline'")
	}
}
