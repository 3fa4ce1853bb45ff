package salary

import (
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Calculate derives items and totals for s from the ordered component catalog.
// It reads nothing but its arguments, so the same inputs always give the same result.
func Calculate(s salary.Salary, components []component.SalaryComponent, rates ratesetting.Rates, now time.Time) salary.Calculation {
	calc := salary.Calculation{
		TotalAllowances:     decimal.Zero,
		TotalDeductions:     decimal.Zero,
		TotalTaxes:          decimal.Zero,
		TotalSocialSecurity: decimal.Zero,
	}
	var skipped []string

	for _, c := range components {
		if !c.IsActive {
			continue
		}
		if !c.CalculationType.Valid() {
			calc.Gaps = append(calc.Gaps, salary.ConfigurationGap{ComponentID: c.ID, ComponentCode: c.Code, Reason: "unknown calculation type"})
			skipped = append(skipped, c.Code)
			continue
		}

		amount := component.CalculateAmount(c, s.BaseSalary, s.HoursWorked, s.PerformanceFactor).Round(moneyPlaces)
		if !amount.IsPositive() {
			if c.DefaultValue.IsZero() {
				calc.Gaps = append(calc.Gaps, salary.ConfigurationGap{ComponentID: c.ID, ComponentCode: c.Code, Reason: "default value is zero"})
			}
			skipped = append(skipped, c.Code)
			continue
		}

		item := salary.SalaryItem{
			SalaryID: s.ID,
			Snapshot: salary.ComponentSnapshot{
				Code:                   c.Code,
				Name:                   c.Name,
				Type:                   c.Type,
				CalculationType:        c.CalculationType,
				Unit:                   c.CalculationType.Unit(),
				IsTaxable:              c.IsTaxable,
				IsSocialSecurityLiable: c.IsSocialSecurityLiable,
				BaseAmount:             s.BaseSalary,
			},
			Amount:               amount,
			Quantity:             quantity(c, s),
			TaxAmount:            decimal.Zero,
			SocialSecurityAmount: decimal.Zero,
			Position:             len(calc.Items),
			CreatedAt:            now,
		}
		if c.ID != "" {
			id := c.ID
			item.ComponentID = &id
		}
		if c.CalculationType != component.CalculationFixed {
			rate := c.DefaultValue
			item.Rate = &rate
		}

		if c.IsTaxable {
			item.TaxAmount = levy(amount, c.TaxRate, rates.TaxRate)
		}
		if c.IsSocialSecurityLiable {
			item.SocialSecurityAmount = levy(amount, c.SocialSecurityRate, rates.SocialSecurityRate)
		}

		switch {
		case c.Type.IsEarning():
			calc.TotalAllowances = calc.TotalAllowances.Add(amount)
		case c.Type == component.ComponentTypeDeduction:
			calc.TotalDeductions = calc.TotalDeductions.Add(amount)
		}
		calc.TotalTaxes = calc.TotalTaxes.Add(item.TaxAmount)
		calc.TotalSocialSecurity = calc.TotalSocialSecurity.Add(item.SocialSecurityAmount)

		calc.Items = append(calc.Items, item)
	}

	calc.GrossSalary = s.BaseSalary.Add(calc.TotalAllowances).Sub(calc.TotalDeductions)
	calc.NetSalary = calc.GrossSalary.Sub(calc.TotalTaxes).Sub(calc.TotalSocialSecurity)

	calc.Breakdown = salary.Breakdown{
		BaseSalary:          s.BaseSalary,
		TotalAllowances:     calc.TotalAllowances,
		TotalDeductions:     calc.TotalDeductions,
		TotalTaxes:          calc.TotalTaxes,
		TotalSocialSecurity: calc.TotalSocialSecurity,
		GrossSalary:         calc.GrossSalary,
		NetSalary:           calc.NetSalary,
		TaxRate:             rates.TaxRate,
		SocialSecurityRate:  rates.SocialSecurityRate,
		ItemCount:           len(calc.Items),
		SkippedComponents:   skipped,
		CalculatedAt:        now,
	}

	return calc
}

// levy applies the explicit component rate when set, else the fallback, in percent.
func levy(amount decimal.Decimal, explicit *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	rate := fallback
	if explicit != nil {
		rate = *explicit
	}
	return amount.Mul(rate).Div(hundred).Round(moneyPlaces)
}

func quantity(c component.SalaryComponent, s salary.Salary) decimal.Decimal {
	switch c.CalculationType {
	case component.CalculationHourly:
		return s.HoursWorked
	case component.CalculationPerformance:
		return s.PerformanceFactor
	default:
		return decimal.NewFromInt(1)
	}
}
