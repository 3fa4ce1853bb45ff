package component

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeBase      ComponentType = "base"
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
	ComponentTypeBonus     ComponentType = "bonus"
	ComponentTypeOvertime  ComponentType = "overtime"
)

func (t ComponentType) Valid() bool {
	switch t {
	case ComponentTypeBase, ComponentTypeAllowance, ComponentTypeDeduction, ComponentTypeBonus, ComponentTypeOvertime:
		return true
	}
	return false
}

// IsEarning reports whether amounts of this type count toward total allowances.
func (t ComponentType) IsEarning() bool {
	return t == ComponentTypeAllowance || t == ComponentTypeBonus || t == ComponentTypeOvertime
}

// CalculationType enum
type CalculationType string

const (
	CalculationFixed       CalculationType = "fixed"
	CalculationPercentage  CalculationType = "percentage"
	CalculationHourly      CalculationType = "hourly"
	CalculationPerformance CalculationType = "performance"
)

func (c CalculationType) Valid() bool {
	switch c {
	case CalculationFixed, CalculationPercentage, CalculationHourly, CalculationPerformance:
		return true
	}
	return false
}

// Unit describes how DefaultValue is read for this calculation type.
func (c CalculationType) Unit() string {
	switch c {
	case CalculationPercentage:
		return "percent"
	case CalculationHourly:
		return "per_hour"
	case CalculationPerformance:
		return "per_performance_unit"
	default:
		return "amount"
	}
}

// SalaryComponent - Catalog entry describing one part of pay.
// TaxRate and SocialSecurityRate are explicit levy rates in percent; nil means the rate settings apply.
type SalaryComponent struct {
	ID                     string
	Name                   string
	Code                   string
	Description            *string
	Type                   ComponentType
	CalculationType        CalculationType
	DefaultValue           decimal.Decimal
	IsTaxable              bool
	IsSocialSecurityLiable bool
	IsMandatory            bool
	IsActive               bool
	TaxRate                *decimal.Decimal
	SocialSecurityRate     *decimal.Decimal
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// CalculateAmount applies the component's calculation strategy.
// It has no side effects and ignores IsActive; callers filter inactive components.
func CalculateAmount(c SalaryComponent, baseAmount, hoursWorked, performanceFactor decimal.Decimal) decimal.Decimal {
	switch c.CalculationType {
	case CalculationFixed:
		return c.DefaultValue
	case CalculationPercentage:
		return baseAmount.Mul(c.DefaultValue).Div(decimal.NewFromInt(100))
	case CalculationHourly:
		return c.DefaultValue.Mul(hoursWorked)
	case CalculationPerformance:
		return c.DefaultValue.Mul(performanceFactor)
	default:
		return decimal.Zero
	}
}
