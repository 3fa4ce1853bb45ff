package fixtures

import (
	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

// GetDefaultComponents returns a starter salary component catalog.
// Values are placeholders an HR admin is expected to adjust per company.
func GetDefaultComponents() []component.SalaryComponent {
	return []component.SalaryComponent{
		{
			Name:                   "Transport Allowance",
			Code:                   "TRANSPORT",
			Description:            strPtr("Monthly commuting allowance"),
			Type:                   component.ComponentTypeAllowance,
			CalculationType:        component.CalculationFixed,
			DefaultValue:           decimal.NewFromInt(500000),
			IsTaxable:              true,
			IsSocialSecurityLiable: false,
			IsActive:               true,
		},
		{
			Name:                   "Meal Allowance",
			Code:                   "MEAL",
			Description:            strPtr("Monthly meal allowance"),
			Type:                   component.ComponentTypeAllowance,
			CalculationType:        component.CalculationFixed,
			DefaultValue:           decimal.NewFromInt(400000),
			IsTaxable:              true,
			IsSocialSecurityLiable: false,
			IsActive:               true,
		},
		{
			Name:                   "Position Allowance",
			Code:                   "POSITION",
			Description:            strPtr("Percentage of base salary for structural positions"),
			Type:                   component.ComponentTypeAllowance,
			CalculationType:        component.CalculationPercentage,
			DefaultValue:           decimal.NewFromInt(10),
			IsTaxable:              true,
			IsSocialSecurityLiable: true,
			IsActive:               true,
		},
		{
			Name:            "Overtime",
			Code:            "OVERTIME",
			Description:     strPtr("Paid per hour worked beyond schedule"),
			Type:            component.ComponentTypeOvertime,
			CalculationType: component.CalculationHourly,
			DefaultValue:    decimal.NewFromInt(25000),
			IsTaxable:       true,
			IsActive:        true,
		},
		{
			Name:            "Performance Bonus",
			Code:            "PERF_BONUS",
			Description:     strPtr("Scaled by the period performance factor"),
			Type:            component.ComponentTypeBonus,
			CalculationType: component.CalculationPerformance,
			DefaultValue:    decimal.NewFromInt(1000000),
			IsTaxable:       true,
			IsActive:        true,
		},
		{
			Name:            "Attendance Deduction",
			Code:            "ABSENCE",
			Description:     strPtr("Unpaid leave and lateness"),
			Type:            component.ComponentTypeDeduction,
			CalculationType: component.CalculationFixed,
			DefaultValue:    decimal.Zero,
			IsActive:        true,
		},
	}
}
