package salary

import (
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/period"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSalaryRequest struct {
	EmployeeID        string           `json:"employee_id"`
	BaseSalary        *decimal.Decimal `json:"base_salary,omitempty"` // nil = employee directory base salary
	Period            string           `json:"period"`
	PeriodStart       *string          `json:"period_start,omitempty"`
	PeriodEnd         *string          `json:"period_end,omitempty"`
	PayDate           *string          `json:"pay_date,omitempty"`
	HoursWorked       *decimal.Decimal `json:"hours_worked,omitempty"`
	PerformanceFactor *decimal.Decimal `json:"performance_factor,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

func (r *CreateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.BaseSalary != nil && !validator.IsNonNegative(*r.BaseSalary) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if normalized, err := period.Normalize(r.Period); err != nil {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be a month in YYYY-MM format"})
	} else {
		r.Period = normalized
	}
	errs = append(errs, validateDates(r.PeriodStart, r.PeriodEnd, r.PayDate)...)
	errs = append(errs, validateInputs(r.HoursWorked, r.PerformanceFactor)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSalaryRequest struct {
	ID                string
	BaseSalary        *decimal.Decimal `json:"base_salary,omitempty"`
	PayDate           *string          `json:"pay_date,omitempty"`
	HoursWorked       *decimal.Decimal `json:"hours_worked,omitempty"`
	PerformanceFactor *decimal.Decimal `json:"performance_factor,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

func (r *UpdateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary != nil && !validator.IsNonNegative(*r.BaseSalary) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	errs = append(errs, validateDates(nil, nil, r.PayDate)...)
	errs = append(errs, validateInputs(r.HoursWorked, r.PerformanceFactor)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDates(start, end, payDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var startDate, endDate time.Time
	var okStart, okEnd bool

	if start != nil {
		if startDate, okStart = validator.IsValidDate(*start); !okStart {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be YYYY-MM-DD"})
		}
	}
	if end != nil {
		if endDate, okEnd = validator.IsValidDate(*end); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be YYYY-MM-DD"})
		}
	}
	if okStart && okEnd && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}
	if payDate != nil {
		if _, ok := validator.IsValidDate(*payDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be YYYY-MM-DD"})
		}
	}
	return errs
}

func validateInputs(hours, performance *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if hours != nil && !validator.IsNonNegative(*hours) {
		errs = append(errs, validator.ValidationError{Field: "hours_worked", Message: "must be non-negative"})
	}
	if performance != nil && !validator.IsNonNegative(*performance) {
		errs = append(errs, validator.ValidationError{Field: "performance_factor", Message: "must be non-negative"})
	}
	return errs
}

type ApproveSalaryRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type CancelSalaryRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type SalaryFilter struct {
	Period     *string `json:"period,omitempty"`
	Status     *string `json:"status,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	SortBy     string  `json:"sort_by"`
	SortOrder  string  `json:"sort_order"`
}

func (f *SalaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Period != nil {
		normalized, err := period.Normalize(*f.Period)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "period", Message: "must be a month in YYYY-MM format"})
		} else {
			f.Period = &normalized
		}
	}
	if f.Status != nil && !SalaryStatus(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of draft, calculated, approved, paid, cancelled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryItemResponse struct {
	ID                     string           `json:"id"`
	ComponentID            *string          `json:"component_id,omitempty"`
	ComponentCode          string           `json:"component_code"`
	Name                   string           `json:"name"`
	Type                   string           `json:"type"`
	CalculationType        string           `json:"calculation_type"`
	Unit                   string           `json:"unit"`
	Amount                 decimal.Decimal  `json:"amount"`
	Rate                   *decimal.Decimal `json:"rate,omitempty"`
	Quantity               decimal.Decimal  `json:"quantity"`
	BaseAmount             decimal.Decimal  `json:"base_amount"`
	IsTaxable              bool             `json:"is_taxable"`
	IsSocialSecurityLiable bool             `json:"is_social_security_liable"`
	TaxAmount              decimal.Decimal  `json:"tax_amount"`
	SocialSecurityAmount   decimal.Decimal  `json:"social_security_amount"`
}

type SalaryResponse struct {
	ID                  string               `json:"id"`
	SalaryNumber        string               `json:"salary_number"`
	EmployeeID          string               `json:"employee_id"`
	EmployeeName        string               `json:"employee_name,omitempty"`
	EmployeeCode        string               `json:"employee_code,omitempty"`
	Period              string               `json:"period"`
	PeriodStart         string               `json:"period_start"`
	PeriodEnd           string               `json:"period_end"`
	PayDate             *string              `json:"pay_date,omitempty"`
	BaseSalary          decimal.Decimal      `json:"base_salary"`
	HoursWorked         decimal.Decimal      `json:"hours_worked"`
	PerformanceFactor   decimal.Decimal      `json:"performance_factor"`
	TotalAllowances     decimal.Decimal      `json:"total_allowances"`
	TotalDeductions     decimal.Decimal      `json:"total_deductions"`
	TotalTaxes          decimal.Decimal      `json:"total_taxes"`
	TotalSocialSecurity decimal.Decimal      `json:"total_social_security"`
	GrossSalary         decimal.Decimal      `json:"gross_salary"`
	NetSalary           decimal.Decimal      `json:"net_salary"`
	Status              string               `json:"status"`
	Notes               *string              `json:"notes,omitempty"`
	Breakdown           *Breakdown           `json:"breakdown,omitempty"`
	Items               []SalaryItemResponse `json:"items,omitempty"`
	CalculatedAt        *string              `json:"calculated_at,omitempty"`
	ApprovedBy          *string              `json:"approved_by,omitempty"`
	ApprovedAt          *string              `json:"approved_at,omitempty"`
	PaidBy              *string              `json:"paid_by,omitempty"`
	PaidAt              *string              `json:"paid_at,omitempty"`
	CancelledAt         *string              `json:"cancelled_at,omitempty"`
}

type ListSalaryResponse struct {
	Data       []SalaryResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

func ToItemResponse(i SalaryItem) SalaryItemResponse {
	return SalaryItemResponse{
		ID:                     i.ID,
		ComponentID:            i.ComponentID,
		ComponentCode:          i.Snapshot.Code,
		Name:                   i.Snapshot.Name,
		Type:                   string(i.Snapshot.Type),
		CalculationType:        string(i.Snapshot.CalculationType),
		Unit:                   i.Snapshot.Unit,
		Amount:                 i.Amount,
		Rate:                   i.Rate,
		Quantity:               i.Quantity,
		BaseAmount:             i.Snapshot.BaseAmount,
		IsTaxable:              i.Snapshot.IsTaxable,
		IsSocialSecurityLiable: i.Snapshot.IsSocialSecurityLiable,
		TaxAmount:              i.TaxAmount,
		SocialSecurityAmount:   i.SocialSecurityAmount,
	}
}

func ToResponse(s Salary, items []SalaryItem) SalaryResponse {
	resp := SalaryResponse{
		ID:                  s.ID,
		SalaryNumber:        s.SalaryNumber,
		EmployeeID:          s.EmployeeID,
		Period:              s.Period,
		PeriodStart:         s.PeriodStart.Format("2006-01-02"),
		PeriodEnd:           s.PeriodEnd.Format("2006-01-02"),
		PayDate:             formatDate(s.PayDate),
		BaseSalary:          s.BaseSalary,
		HoursWorked:         s.HoursWorked,
		PerformanceFactor:   s.PerformanceFactor,
		TotalAllowances:     s.TotalAllowances,
		TotalDeductions:     s.TotalDeductions,
		TotalTaxes:          s.TotalTaxes,
		TotalSocialSecurity: s.TotalSocialSecurity,
		GrossSalary:         s.GrossSalary,
		NetSalary:           s.NetSalary,
		Status:              string(s.Status),
		Notes:               s.Notes,
		Breakdown:           s.Breakdown,
		CalculatedAt:        formatTimestamp(s.CalculatedAt),
		ApprovedBy:          s.ApprovedBy,
		ApprovedAt:          formatTimestamp(s.ApprovedAt),
		PaidBy:              s.PaidBy,
		PaidAt:              formatTimestamp(s.PaidAt),
		CancelledAt:         formatTimestamp(s.CancelledAt),
	}
	if s.EmployeeName != nil {
		resp.EmployeeName = *s.EmployeeName
	}
	if s.EmployeeCode != nil {
		resp.EmployeeCode = *s.EmployeeCode
	}
	for _, item := range items {
		resp.Items = append(resp.Items, ToItemResponse(item))
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format("2006-01-02")
	return &str
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
