package payroll

import (
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/pkg/period"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePayrollRequest struct {
	Period      string  `json:"period"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if normalized, err := period.Normalize(r.Period); err != nil {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be a month in YYYY-MM format"})
	} else {
		r.Period = normalized
	}

	var start, end time.Time
	var okStart, okEnd bool
	if r.PeriodStart != nil {
		if start, okStart = validator.IsValidDate(*r.PeriodStart); !okStart {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be YYYY-MM-DD"})
		}
	}
	if r.PeriodEnd != nil {
		if end, okEnd = validator.IsValidDate(*r.PeriodEnd); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be YYYY-MM-DD"})
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApprovePayrollRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type CancelPayrollRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type PayrollFilter struct {
	Period *string `json:"period,omitempty"`
	Status *string `json:"status,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Period != nil {
		normalized, err := period.Normalize(*f.Period)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "period", Message: "must be a month in YYYY-MM format"})
		} else {
			f.Period = &normalized
		}
	}
	if f.Status != nil && !PayrollStatus(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of draft, calculated, approved, paid, cancelled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollResponse struct {
	ID                  string          `json:"id"`
	PayrollNumber       string          `json:"payroll_number"`
	Period              string          `json:"period"`
	PeriodStart         string          `json:"period_start"`
	PeriodEnd           string          `json:"period_end"`
	PaymentDate         *string         `json:"payment_date,omitempty"`
	Status              string          `json:"status"`
	TotalEmployees      int             `json:"total_employees"`
	TotalGrossSalary    decimal.Decimal `json:"total_gross_salary"`
	TotalNetSalary      decimal.Decimal `json:"total_net_salary"`
	TotalTaxes          decimal.Decimal `json:"total_taxes"`
	TotalSocialSecurity decimal.Decimal `json:"total_social_security"`
	TotalAllowances     decimal.Decimal `json:"total_allowances"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	Summary             *Summary        `json:"summary,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	CalculatedAt        *string         `json:"calculated_at,omitempty"`
	ApprovedBy          *string         `json:"approved_by,omitempty"`
	ApprovedAt          *string         `json:"approved_at,omitempty"`
	PaidBy              *string         `json:"paid_by,omitempty"`
	PaidAt              *string         `json:"paid_at,omitempty"`
	CancelledAt         *string         `json:"cancelled_at,omitempty"`
	CreatedAt           string          `json:"created_at"`
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

func ToResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:                  p.ID,
		PayrollNumber:       p.PayrollNumber,
		Period:              p.Period,
		PeriodStart:         p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:           p.PeriodEnd.Format("2006-01-02"),
		PaymentDate:         formatDate(p.PaymentDate),
		Status:              string(p.Status),
		TotalEmployees:      p.TotalEmployees,
		TotalGrossSalary:    p.TotalGrossSalary,
		TotalNetSalary:      p.TotalNetSalary,
		TotalTaxes:          p.TotalTaxes,
		TotalSocialSecurity: p.TotalSocialSecurity,
		TotalAllowances:     p.TotalAllowances,
		TotalDeductions:     p.TotalDeductions,
		Summary:             p.Summary,
		Notes:               p.Notes,
		CalculatedAt:        formatTimestamp(p.CalculatedAt),
		ApprovedBy:          p.ApprovedBy,
		ApprovedAt:          formatTimestamp(p.ApprovedAt),
		PaidBy:              p.PaidBy,
		PaidAt:              formatTimestamp(p.PaidAt),
		CancelledAt:         formatTimestamp(p.CancelledAt),
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
	}
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
