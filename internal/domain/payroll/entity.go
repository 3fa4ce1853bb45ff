package payroll

import (
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft      PayrollStatus = "draft"
	PayrollStatusCalculated PayrollStatus = "calculated"
	PayrollStatusApproved   PayrollStatus = "approved"
	PayrollStatusPaid       PayrollStatus = "paid"
	PayrollStatusCancelled  PayrollStatus = "cancelled"
)

func (s PayrollStatus) Valid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusCalculated, PayrollStatusApproved, PayrollStatusPaid, PayrollStatusCancelled:
		return true
	}
	return false
}

var transitions = map[lifecycle.Action][]PayrollStatus{
	lifecycle.ActionCalculate: {PayrollStatusDraft},
	lifecycle.ActionApprove:   {PayrollStatusDraft, PayrollStatusCalculated},
	lifecycle.ActionMarkPaid:  {PayrollStatusApproved},
	lifecycle.ActionCancel:    {PayrollStatusDraft, PayrollStatusCalculated},
}

func (s PayrollStatus) Allows(action lifecycle.Action, policy lifecycle.ApprovalPolicy) bool {
	if action == lifecycle.ActionApprove && s == PayrollStatusDraft && !policy.AllowsUncalculated() {
		return false
	}
	for _, from := range transitions[action] {
		if from == s {
			return true
		}
	}
	return false
}

// Payroll - Organization-wide batch for one period
type Payroll struct {
	ID                  string
	PayrollNumber       string
	Period              string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	PaymentDate         *time.Time
	Status              PayrollStatus
	TotalEmployees      int
	TotalGrossSalary    decimal.Decimal
	TotalNetSalary      decimal.Decimal
	TotalTaxes          decimal.Decimal
	TotalSocialSecurity decimal.Decimal
	TotalAllowances     decimal.Decimal
	TotalDeductions     decimal.Decimal
	Summary             *Summary
	Notes               *string
	CalculatedAt        *time.Time
	ApprovedBy          *string
	ApprovedAt          *time.Time
	PaidBy              *string
	PaidAt              *time.Time
	CancelledAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Summary is the snapshot captured when a payroll is calculated.
type Summary struct {
	TotalEmployees      int                         `json:"total_employees"`
	TotalBaseSalary     decimal.Decimal             `json:"total_base_salary"`
	TotalGrossSalary    decimal.Decimal             `json:"total_gross_salary"`
	TotalNetSalary      decimal.Decimal             `json:"total_net_salary"`
	TotalTaxes          decimal.Decimal             `json:"total_taxes"`
	TotalSocialSecurity decimal.Decimal             `json:"total_social_security"`
	TotalAllowances     decimal.Decimal             `json:"total_allowances"`
	TotalDeductions     decimal.Decimal             `json:"total_deductions"`
	AverageGrossSalary  decimal.Decimal             `json:"average_gross_salary"`
	AverageNetSalary    decimal.Decimal             `json:"average_net_salary"`
	StatusCounts        map[salary.SalaryStatus]int `json:"status_counts"`
	CalculatedAt        time.Time                   `json:"calculated_at"`
}

func (p *Payroll) guard(action lifecycle.Action, policy lifecycle.ApprovalPolicy) error {
	if !p.Status.Allows(action, policy) {
		return &TransitionError{Action: action, Status: p.Status}
	}
	return nil
}

func (p *Payroll) CanCalculate() error {
	return p.guard(lifecycle.ActionCalculate, lifecycle.ApprovalPermissive)
}

// ApplySummary copies aggregate totals from the summary and advances draft -> calculated.
func (p *Payroll) ApplySummary(s Summary) error {
	if err := p.CanCalculate(); err != nil {
		return err
	}
	at := s.CalculatedAt
	summary := s

	p.TotalEmployees = s.TotalEmployees
	p.TotalGrossSalary = s.TotalGrossSalary
	p.TotalNetSalary = s.TotalNetSalary
	p.TotalTaxes = s.TotalTaxes
	p.TotalSocialSecurity = s.TotalSocialSecurity
	p.TotalAllowances = s.TotalAllowances
	p.TotalDeductions = s.TotalDeductions
	p.Summary = &summary
	p.CalculatedAt = &at
	p.Status = PayrollStatusCalculated
	p.UpdatedAt = at
	return nil
}

func (p *Payroll) Approve(approverID string, notes *string, at time.Time, policy lifecycle.ApprovalPolicy) error {
	if err := p.guard(lifecycle.ActionApprove, policy); err != nil {
		return err
	}
	p.ApprovedBy = &approverID
	p.ApprovedAt = &at
	if notes != nil && *notes != "" {
		p.appendNote("approved: " + *notes)
	}
	p.Status = PayrollStatusApproved
	p.UpdatedAt = at
	return nil
}

func (p *Payroll) MarkPaid(payerID string, at time.Time) error {
	if err := p.guard(lifecycle.ActionMarkPaid, lifecycle.ApprovalPermissive); err != nil {
		return err
	}
	p.PaidBy = &payerID
	p.PaidAt = &at
	p.Status = PayrollStatusPaid
	p.UpdatedAt = at
	return nil
}

func (p *Payroll) Cancel(reason *string, at time.Time) error {
	if err := p.guard(lifecycle.ActionCancel, lifecycle.ApprovalPermissive); err != nil {
		return err
	}
	note := "cancelled"
	if reason != nil && *reason != "" {
		note += ": " + *reason
	}
	p.appendNote(note)
	p.CancelledAt = &at
	p.Status = PayrollStatusCancelled
	p.UpdatedAt = at
	return nil
}

func (p *Payroll) appendNote(note string) {
	if p.Notes == nil || *p.Notes == "" {
		p.Notes = &note
		return
	}
	joined := *p.Notes + "\n" + note
	p.Notes = &joined
}

// Summarize aggregates every salary of a period. Status is not filtered: the summary
// describes what exists for the period, not what is finalized.
func Summarize(salaries []salary.Salary, at time.Time) Summary {
	s := Summary{
		TotalBaseSalary:     decimal.Zero,
		TotalGrossSalary:    decimal.Zero,
		TotalNetSalary:      decimal.Zero,
		TotalTaxes:          decimal.Zero,
		TotalSocialSecurity: decimal.Zero,
		TotalAllowances:     decimal.Zero,
		TotalDeductions:     decimal.Zero,
		AverageGrossSalary:  decimal.Zero,
		AverageNetSalary:    decimal.Zero,
		StatusCounts:        make(map[salary.SalaryStatus]int),
		CalculatedAt:        at,
	}

	for _, sal := range salaries {
		s.TotalEmployees++
		s.TotalBaseSalary = s.TotalBaseSalary.Add(sal.BaseSalary)
		s.TotalGrossSalary = s.TotalGrossSalary.Add(sal.GrossSalary)
		s.TotalNetSalary = s.TotalNetSalary.Add(sal.NetSalary)
		s.TotalTaxes = s.TotalTaxes.Add(sal.TotalTaxes)
		s.TotalSocialSecurity = s.TotalSocialSecurity.Add(sal.TotalSocialSecurity)
		s.TotalAllowances = s.TotalAllowances.Add(sal.TotalAllowances)
		s.TotalDeductions = s.TotalDeductions.Add(sal.TotalDeductions)
		s.StatusCounts[sal.Status]++
	}

	if s.TotalEmployees > 0 {
		count := decimal.NewFromInt(int64(s.TotalEmployees))
		s.AverageGrossSalary = s.TotalGrossSalary.Div(count).Round(2)
		s.AverageNetSalary = s.TotalNetSalary.Div(count).Round(2)
	}

	return s
}
