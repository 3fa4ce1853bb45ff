package component

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateAmount(t *testing.T) {
	tests := []struct {
		name        string
		calcType    CalculationType
		value       string
		base        string
		hours       string
		performance string
		want        string
	}{
		{"fixed ignores inputs", CalculationFixed, "50000", "300000", "10", "2", "50000"},
		{"percentage of base", CalculationPercentage, "10", "300000", "0", "0", "30000"},
		{"fractional percentage", CalculationPercentage, "2.5", "1234.56", "0", "0", "30.864"},
		{"hourly rate times hours", CalculationHourly, "1500", "300000", "12.5", "0", "18750"},
		{"hourly without hours", CalculationHourly, "1500", "300000", "0", "0", "0"},
		{"performance rate times factor", CalculationPerformance, "20000", "300000", "0", "1.5", "30000"},
		{"unknown type contributes nothing", CalculationType("tiered"), "100", "300000", "1", "1", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SalaryComponent{CalculationType: tt.calcType, DefaultValue: d(tt.value)}
			got := CalculateAmount(c, d(tt.base), d(tt.hours), d(tt.performance))
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestComponentType_IsEarning(t *testing.T) {
	assert.True(t, ComponentTypeAllowance.IsEarning())
	assert.True(t, ComponentTypeBonus.IsEarning())
	assert.True(t, ComponentTypeOvertime.IsEarning())
	assert.False(t, ComponentTypeDeduction.IsEarning())
	assert.False(t, ComponentTypeBase.IsEarning())
}

func TestCreateComponentRequest_Validate(t *testing.T) {
	valid := CreateComponentRequest{
		Name:            "Transport",
		Code:            "TRANSPORT",
		Type:            "allowance",
		CalculationType: "fixed",
		DefaultValue:    d("50000"),
	}
	assert.NoError(t, valid.Validate())

	badRate := d("120")
	invalid := CreateComponentRequest{
		Code:            "transport",
		Type:            "perk",
		CalculationType: "tiered",
		DefaultValue:    d("-1"),
		TaxRate:         &badRate,
	}
	err := invalid.Validate()
	assert.Error(t, err)
	fields := err.Error()
	for _, f := range []string{"name", "code", "type", "calculation_type", "default_value", "tax_rate"} {
		assert.Contains(t, fields, f)
	}
}
