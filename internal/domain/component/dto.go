package component

import (
	"github.com/cmlabs-hris/salary-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateComponentRequest struct {
	Name                   string           `json:"name"`
	Code                   string           `json:"code"`
	Description            *string          `json:"description,omitempty"`
	Type                   string           `json:"type"`
	CalculationType        string           `json:"calculation_type"`
	DefaultValue           decimal.Decimal  `json:"default_value"`
	IsTaxable              *bool            `json:"is_taxable,omitempty"`
	IsSocialSecurityLiable *bool            `json:"is_social_security_liable,omitempty"`
	IsMandatory            *bool            `json:"is_mandatory,omitempty"`
	TaxRate                *decimal.Decimal `json:"tax_rate,omitempty"`
	SocialSecurityRate     *decimal.Decimal `json:"social_security_rate,omitempty"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsValidComponentCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 2-32 upper-case letters, digits or underscores"})
	}
	if !ComponentType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of base, allowance, deduction, bonus, overtime"})
	}
	if !CalculationType(r.CalculationType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "calculation_type", Message: "must be one of fixed, percentage, hourly, performance"})
	}
	if !validator.IsNonNegative(r.DefaultValue) {
		errs = append(errs, validator.ValidationError{Field: "default_value", Message: "must be non-negative"})
	}
	errs = append(errs, validateRates(r.TaxRate, r.SocialSecurityRate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateComponentRequest struct {
	ID                     string
	Name                   *string          `json:"name,omitempty"`
	Description            *string          `json:"description,omitempty"`
	CalculationType        *string          `json:"calculation_type,omitempty"`
	DefaultValue           *decimal.Decimal `json:"default_value,omitempty"`
	IsTaxable              *bool            `json:"is_taxable,omitempty"`
	IsSocialSecurityLiable *bool            `json:"is_social_security_liable,omitempty"`
	IsMandatory            *bool            `json:"is_mandatory,omitempty"`
	IsActive               *bool            `json:"is_active,omitempty"`
	TaxRate                *decimal.Decimal `json:"tax_rate,omitempty"`
	SocialSecurityRate     *decimal.Decimal `json:"social_security_rate,omitempty"`
}

func (r *UpdateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.CalculationType != nil && !CalculationType(*r.CalculationType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "calculation_type", Message: "must be one of fixed, percentage, hourly, performance"})
	}
	if r.DefaultValue != nil && !validator.IsNonNegative(*r.DefaultValue) {
		errs = append(errs, validator.ValidationError{Field: "default_value", Message: "must be non-negative"})
	}
	errs = append(errs, validateRates(r.TaxRate, r.SocialSecurityRate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRates(taxRate, socialSecurityRate *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if taxRate != nil && !validator.IsPercentage(*taxRate) {
		errs = append(errs, validator.ValidationError{Field: "tax_rate", Message: "must be between 0 and 100"})
	}
	if socialSecurityRate != nil && !validator.IsPercentage(*socialSecurityRate) {
		errs = append(errs, validator.ValidationError{Field: "social_security_rate", Message: "must be between 0 and 100"})
	}
	return errs
}

type ComponentResponse struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	Code                   string           `json:"code"`
	Description            *string          `json:"description,omitempty"`
	Type                   string           `json:"type"`
	CalculationType        string           `json:"calculation_type"`
	Unit                   string           `json:"unit"`
	DefaultValue           decimal.Decimal  `json:"default_value"`
	IsTaxable              bool             `json:"is_taxable"`
	IsSocialSecurityLiable bool             `json:"is_social_security_liable"`
	IsMandatory            bool             `json:"is_mandatory"`
	IsActive               bool             `json:"is_active"`
	TaxRate                *decimal.Decimal `json:"tax_rate,omitempty"`
	SocialSecurityRate     *decimal.Decimal `json:"social_security_rate,omitempty"`
}

func ToResponse(c SalaryComponent) ComponentResponse {
	return ComponentResponse{
		ID:                     c.ID,
		Name:                   c.Name,
		Code:                   c.Code,
		Description:            c.Description,
		Type:                   string(c.Type),
		CalculationType:        string(c.CalculationType),
		Unit:                   c.CalculationType.Unit(),
		DefaultValue:           c.DefaultValue,
		IsTaxable:              c.IsTaxable,
		IsSocialSecurityLiable: c.IsSocialSecurityLiable,
		IsMandatory:            c.IsMandatory,
		IsActive:               c.IsActive,
		TaxRate:                c.TaxRate,
		SocialSecurityRate:     c.SocialSecurityRate,
	}
}
